package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"github.com/username/employee-schedule/pkg/dateutil"
)

// Config represents application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Addr            string `mapstructure:"addr"`
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
	MaxRangeDays    int    `mapstructure:"max_range_days"`
}

// CalendarConfig represents holiday calendar configuration
type CalendarConfig struct {
	Type         string   `mapstructure:"type"`          // "static", "file" or "isdayoff"
	Holidays     []string `mapstructure:"holidays"`      // For static type
	HolidaysFile string   `mapstructure:"holidays_file"` // For file type, fallback for isdayoff
	APIURL       string   `mapstructure:"api_url"`       // For isdayoff type
	CacheTTL     string   `mapstructure:"cache_ttl"`
	WeekendDays  []string `mapstructure:"weekend_days"`
	RefreshCron  string   `mapstructure:"refresh_cron"` // Cache purge / file reload schedule
}

// TemplatesConfig represents employee template store configuration
type TemplatesConfig struct {
	Source    string `mapstructure:"source"` // "file" or "sqlite"
	File      string `mapstructure:"file"`
	DSN       string `mapstructure:"dsn"`
	CacheSize int    `mapstructure:"cache_size"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.employee-schedule")
		v.AddConfigPath("/etc/employee-schedule")
	}

	setDefaults(v)

	// EMPLOYEE_SCHEDULE_SERVER_ADDR overrides server.addr and so on
	v.SetEnvPrefix("EMPLOYEE_SCHEDULE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults registers every key, AutomaticEnv only resolves keys viper already knows
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.max_range_days", 366)

	v.SetDefault("calendar.type", "file")
	v.SetDefault("calendar.holidays", []string{})
	v.SetDefault("calendar.holidays_file", "")
	v.SetDefault("calendar.api_url", "")
	v.SetDefault("calendar.cache_ttl", "24h")
	v.SetDefault("calendar.weekend_days", []string{"saturday", "sunday"})
	v.SetDefault("calendar.refresh_cron", "")

	v.SetDefault("templates.source", "file")
	v.SetDefault("templates.file", "")
	v.SetDefault("templates.dsn", "")
	v.SetDefault("templates.cache_size", 0)

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Server config
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.MaxRangeDays < 0 {
		return fmt.Errorf("server.max_range_days must not be negative")
	}
	for key, value := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"calendar.cache_ttl":      c.Calendar.CacheTTL,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	// Validate Calendar config
	switch c.Calendar.Type {
	case "static":
		if _, err := c.Calendar.HolidayDates(); err != nil {
			return err
		}
	case "file":
		if c.Calendar.HolidaysFile == "" {
			return fmt.Errorf("calendar.holidays_file is required for file type")
		}
	case "isdayoff":
		// api_url defaults to isdayoff.ru, holidays_file is an optional fallback
	default:
		return fmt.Errorf("calendar.type must be 'static', 'file' or 'isdayoff', got '%s'", c.Calendar.Type)
	}

	weekend, err := c.Calendar.Weekend()
	if err != nil {
		return err
	}
	// isdayoff.ru reports the Russian production calendar, which only knows a Saturday/Sunday weekend
	if c.Calendar.Type == "isdayoff" && len(weekend) > 0 && !isSaturdaySunday(weekend) {
		return fmt.Errorf("calendar.weekend_days must be saturday and sunday for isdayoff type")
	}

	if c.Calendar.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.Calendar.RefreshCron); err != nil {
			return fmt.Errorf("calendar.refresh_cron: %w", err)
		}
	}

	// Validate Templates config
	switch c.Templates.Source {
	case "file":
		if c.Templates.File == "" {
			return fmt.Errorf("templates.file is required for file source")
		}
	case "sqlite":
		if c.Templates.DSN == "" {
			return fmt.Errorf("templates.dsn is required for sqlite source")
		}
	default:
		return fmt.Errorf("templates.source must be 'file' or 'sqlite', got '%s'", c.Templates.Source)
	}
	if c.Templates.CacheSize < 0 {
		return fmt.Errorf("templates.cache_size must not be negative")
	}

	return nil
}

// HolidayDates parses the static holiday list
func (c *CalendarConfig) HolidayDates() ([]time.Time, error) {
	dates := make([]time.Time, 0, len(c.Holidays))
	for _, raw := range c.Holidays {
		date, err := dateutil.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("calendar.holidays: %w", err)
		}
		dates = append(dates, date)
	}
	return dates, nil
}

// Weekend parses the configured weekend days
func (c *CalendarConfig) Weekend() ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(c.WeekendDays))
	for _, name := range c.WeekendDays {
		day, err := dateutil.ParseWeekday(name)
		if err != nil {
			return nil, fmt.Errorf("calendar.weekend_days: %w", err)
		}
		days = append(days, day)
	}
	return days, nil
}

// GetCacheTTL returns cache TTL duration
func (c *CalendarConfig) GetCacheTTL() time.Duration {
	return parseDurationOr(c.CacheTTL, 24*time.Hour)
}

// GetReadTimeout returns the HTTP read timeout
func (c *ServerConfig) GetReadTimeout() time.Duration {
	return parseDurationOr(c.ReadTimeout, 10*time.Second)
}

// GetWriteTimeout returns the HTTP write timeout
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	return parseDurationOr(c.WriteTimeout, 30*time.Second)
}

// GetShutdownTimeout returns how long in-flight requests may take on shutdown
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDurationOr(c.ShutdownTimeout, 15*time.Second)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

func isSaturdaySunday(days []time.Weekday) bool {
	var saturday, sunday bool
	for _, day := range days {
		switch day {
		case time.Saturday:
			saturday = true
		case time.Sunday:
			sunday = true
		default:
			return false
		}
	}
	return saturday && sunday
}
