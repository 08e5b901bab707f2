package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/username/employee-schedule/internal/config"
	"github.com/username/employee-schedule/internal/template"
	"go.uber.org/zap"
)

func importTemplatesCmd() *cobra.Command {
	var fromFile string
	var dsn string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-templates",
		Short: "Copy weekly templates from a YAML file into the SQLite store",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags win over config
			if fromFile == "" || dsn == "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				if fromFile == "" {
					fromFile = cfg.Templates.File
				}
				if dsn == "" {
					dsn = cfg.Templates.DSN
				}
			}
			if fromFile == "" || dsn == "" {
				return fmt.Errorf("both --from and --dsn must be set (or templates.file and templates.dsn in config)")
			}

			fileStore := template.NewFileStore(fromFile, logger)
			if err := fileStore.Load(); err != nil {
				return err
			}
			employees := fileStore.Employees()

			if dryRun {
				for _, e := range employees {
					fmt.Printf("  %d  %-40s %d day(s)\n", e.ID, e.Name, len(e.Template))
				}
				fmt.Printf("\n[DRY RUN] %d employee(s) would be imported into %s\n", len(employees), dsn)
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), startupTimeout)
			defer cancel()

			store, err := template.OpenSQLiteStore(ctx, dsn, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, e := range employees {
				if err := store.SaveTemplate(ctx, e.ID, e.Name, e.Template); err != nil {
					return fmt.Errorf("failed to import employee %d: %w", e.ID, err)
				}
				logger.Debug("Employee imported", zap.Int64("employee_id", e.ID))
			}

			logger.Info("Templates imported",
				zap.String("from", fromFile),
				zap.String("dsn", dsn),
				zap.Int("employees", len(employees)))
			fmt.Printf("✅ Imported %d employee(s) into %s\n", len(employees), dsn)

			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "from", "", "YAML templates file (default: templates.file from config)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "SQLite database (default: templates.dsn from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List employees without writing")

	return cmd
}
