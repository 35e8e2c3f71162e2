/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/alternativa-centar/site/internal/db"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateDownSteps int

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(migrator *migrate.Migrate, log *logrus.Logger) error {
			if err := migrator.Up(); err != nil {
				if errors.Is(err, migrate.ErrNoChange) {
					log.Info("schema is up to date")
					return nil
				}
				return fmt.Errorf("migrate up failed: %w", err)
			}
			log.Info("migrations applied")
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateDownSteps < 1 {
			return errors.New("--steps must be at least 1")
		}
		return withMigrator(func(migrator *migrate.Migrate, log *logrus.Logger) error {
			if err := migrator.Steps(-migrateDownSteps); err != nil {
				return fmt.Errorf("migrate down failed: %w", err)
			}
			log.WithField("steps", migrateDownSteps).Info("migrations rolled back")
			return nil
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(migrator *migrate.Migrate, log *logrus.Logger) error {
			version, dirty, err := migrator.Version()
			if err != nil {
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
					return nil
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)

	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 1, "number of migrations to roll back")
}

func withMigrator(fn func(*migrate.Migrate, *logrus.Logger) error) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}

	migrator, err := migrate.New(db.MigrationsURL, db.DSN(cfg.Database))
	if err != nil {
		return fmt.Errorf("init migrator failed: %w", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	return fn(migrator, log)
}
