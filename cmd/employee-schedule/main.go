package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/username/employee-schedule/internal/calendar"
	"github.com/username/employee-schedule/internal/config"
	"github.com/username/employee-schedule/internal/daemon"
	"github.com/username/employee-schedule/internal/httpapi"
	"github.com/username/employee-schedule/internal/schedule"
	"github.com/username/employee-schedule/internal/template"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// startupTimeout bounds store migrations at startup
const startupTimeout = 30 * time.Second

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "employee-schedule",
		Short: "Employee schedule service",
		Long:  "Resolve employee working schedules from weekly templates, excluding weekends and holidays",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log settings
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger("info") // Fallback to console
				}
			} else if err == nil {
				initLogger(cfg.Log.Level)
			} else {
				initLogger("info") // Default console logger
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(importTemplatesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			app, err := initializeApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			if cfg.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			router := httpapi.NewRouter(httpapi.NewScheduleController(app.service, logger), logger)

			d, err := daemon.New(router, daemon.Options{
				Addr:            cfg.Server.Addr,
				ReadTimeout:     cfg.Server.GetReadTimeout(),
				WriteTimeout:    cfg.Server.GetWriteTimeout(),
				ShutdownTimeout: cfg.Server.GetShutdownTimeout(),
				RefreshSpec:     cfg.Calendar.RefreshCron,
			}, logger)
			if err != nil {
				return err
			}
			for _, step := range app.refreshers {
				d.RegisterRefresh(step.name, step.fn)
			}

			return d.Start()
		},
	}
}

func resolveCmd() *cobra.Command {
	var employeeID, startDate, endDate string

	cmd := &cobra.Command{
		Use:     "resolve",
		Short:   "Print an employee schedule as JSON",
		Example: "employee-schedule resolve --employee 1 --start 2021-02-22 --end 2021-02-26",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			app, err := initializeApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.GetWriteTimeout())
			defer cancel()

			result, err := app.service.EmployeeSchedule(ctx, employeeID, startDate, endDate)
			if errs, ok := schedule.AsValidationErrors(err); ok {
				for _, e := range errs {
					fmt.Fprintf(os.Stderr, "  %s: %s\n", e.Field, e.Message)
				}
				return fmt.Errorf("invalid request")
			}
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(map[string]schedule.ScheduleResult{"schedule": result}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode schedule: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))

			logger.Info("Schedule resolved",
				zap.String("employee_id", employeeID),
				zap.Int("days", len(result)),
				zap.Duration("total", result.TotalDuration()))
			return nil
		},
	}

	cmd.Flags().StringVar(&employeeID, "employee", "", "Employee id")
	cmd.Flags().StringVar(&startDate, "start", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&endDate, "end", "", "Last day, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("employee")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

type refreshStep struct {
	name string
	fn   daemon.RefreshFunc
}

type app struct {
	service    *schedule.Service
	refreshers []refreshStep
	closers    []func() error
}

func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			logger.Warn("Failed to close resource", zap.Error(err))
		}
	}
}

func initializeApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	holidays, err := initializeCalendar(cfg, a)
	if err != nil {
		return nil, err
	}

	weekend, err := cfg.Calendar.Weekend()
	if err != nil {
		return nil, err
	}
	classifier := calendar.NewClassifier(holidays, weekend, logger)

	templates, err := initializeTemplates(ctx, cfg, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.service = schedule.NewService(
		schedule.NewValidator(templates, cfg.Server.MaxRangeDays, logger),
		schedule.NewResolver(templates, classifier, logger),
		logger,
	)

	return a, nil
}

func initializeCalendar(cfg *config.Config, a *app) (calendar.HolidaySet, error) {
	switch cfg.Calendar.Type {
	case "static":
		dates, err := cfg.Calendar.HolidayDates()
		if err != nil {
			return nil, err
		}
		logger.Info("Using static holiday list", zap.Int("holidays", len(dates)))
		return calendar.NewStaticHolidays(dates...), nil

	case "file":
		logger.Info("Using holidays file", zap.String("file", cfg.Calendar.HolidaysFile))
		fileCal := calendar.NewFileCalendar(cfg.Calendar.HolidaysFile, logger)
		if err := fileCal.Load(); err != nil {
			return nil, fmt.Errorf("failed to load holidays file: %w", err)
		}
		a.refreshers = append(a.refreshers, refreshStep{"holidays-file", func(context.Context) error {
			fileCal.Reload()
			return nil
		}})
		return fileCal, nil

	case "isdayoff":
		logger.Info("Using isdayoff.ru calendar API", zap.String("api_url", cfg.Calendar.APIURL))
		apiCal := calendar.NewIsDayOffCalendar(cfg.Calendar.APIURL, cfg.Calendar.GetCacheTTL(), logger)
		a.refreshers = append(a.refreshers, refreshStep{"isdayoff-cache", func(context.Context) error {
			apiCal.ClearCache()
			return nil
		}})

		if cfg.Calendar.HolidaysFile == "" {
			return apiCal, nil
		}

		fallbackCal := calendar.NewFileCalendar(cfg.Calendar.HolidaysFile, logger)
		compositeCal := calendar.NewCompositeCalendar(apiCal, fallbackCal, logger)

		// Load fallback calendar
		if err := compositeCal.LoadFallback(); err != nil {
			logger.Warn("Failed to load fallback calendar, continuing with API only",
				zap.Error(err))
		}
		a.refreshers = append(a.refreshers, refreshStep{"holidays-file", func(context.Context) error {
			fallbackCal.Reload()
			return nil
		}})
		return compositeCal, nil

	default:
		return nil, fmt.Errorf("unknown calendar type: %s", cfg.Calendar.Type)
	}
}

func initializeTemplates(ctx context.Context, cfg *config.Config, a *app) (schedule.TemplateStore, error) {
	var source schedule.TemplateStore

	switch cfg.Templates.Source {
	case "file":
		fileStore := template.NewFileStore(cfg.Templates.File, logger)
		if err := fileStore.Load(); err != nil {
			return nil, fmt.Errorf("failed to load templates: %w", err)
		}
		a.refreshers = append(a.refreshers, refreshStep{"templates-file", func(context.Context) error {
			return fileStore.Load()
		}})
		source = fileStore

	case "sqlite":
		openCtx, cancel := context.WithTimeout(ctx, startupTimeout)
		defer cancel()

		sqliteStore, err := template.OpenSQLiteStore(openCtx, cfg.Templates.DSN, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, sqliteStore.Close)
		source = sqliteStore

	default:
		return nil, fmt.Errorf("unknown templates source: %s", cfg.Templates.Source)
	}

	cached, err := template.NewCachedStore(source, cfg.Templates.CacheSize, logger)
	if err != nil {
		return nil, err
	}
	a.refreshers = append(a.refreshers, refreshStep{"templates-cache", func(context.Context) error {
		cached.Purge()
		return nil
	}})

	return cached, nil
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err == nil {
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	if logFile == "" {
		return nil, errors.New("log file path is empty")
	}

	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	// Setup encoder
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Parse log level
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core, zap.AddCaller()), nil
}
