package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"autoinsight/adapters/db/postgres/migrations"
	"autoinsight/internal"
	"autoinsight/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply the autoinsight report store schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (YAML)")

	run := func(fn func(ctx context.Context, cmd *cobra.Command, m *migrations.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled() {
				return fmt.Errorf("database.url (or AUTOINSIGHT_DATABASE_URL) is required")
			}
			ctx := cmd.Context()
			db, err := sqlx.ConnectContext(ctx, cfg.Database.Driver, cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("connect %s: %w", cfg.Database.Driver, err)
			}
			defer db.Close()

			m, err := migrations.NewMigrator(db)
			if err != nil {
				return err
			}
			return fn(ctx, cmd, m)
		}
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, m *migrations.Migrator) error {
			applied, err := m.Up(ctx)
			for _, v := range applied {
				internal.DefaultLogger.Info("applied migration %s", v)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migrations applied\n", len(applied))
			return nil
		}),
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, m *migrations.Migrator) error {
			version, err := m.Down(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s\n", version)
			return nil
		}),
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, m *migrations.Migrator) error {
			status, err := m.Status(ctx)
			if err != nil {
				return err
			}
			applied := 0
			for _, s := range status {
				state := "pending"
				if s.Applied {
					state = "applied"
					applied++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %s_%s: %s\n", s.Version, s.Name, state)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d migrations applied\n", applied, len(status))
			return nil
		}),
	}

	rootCmd.AddCommand(upCmd, downCmd, statusCmd)
	return rootCmd
}
