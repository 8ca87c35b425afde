package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"repair-tracker/pkg/database/migrations"
	"repair-tracker/pkg/database/postgresql"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			return withDatabase(func(ctx context.Context, dbConn *pgxpool.Pool) error {
				return migrations.Down(ctx, dbConn, steps)
			})
		},
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(migrations.Up)
			},
		},
		down,
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(func(ctx context.Context, dbConn *pgxpool.Pool) error {
					version, err := migrations.Status(ctx, dbConn)
					if err != nil {
						return err
					}
					fmt.Printf("\nCurrent Version: %d\n", version)
					return nil
				})
			},
		},
	)

	return cmd
}

func withDatabase(fn func(ctx context.Context, dbConn *pgxpool.Pool) error) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()
	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := fn(ctx, dbConn); err != nil {
		logger.Error("migration failed", zap.Error(err))
		return err
	}
	logger.Info("migration command completed")
	return nil
}
