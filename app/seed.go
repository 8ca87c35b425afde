package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"repair-tracker/internal/repositories"
	"repair-tracker/internal/services"
	"repair-tracker/pkg/database/postgresql"
	"repair-tracker/pkg/eventbus"
	"repair-tracker/pkg/trackingcode"
	"repair-tracker/seeders"
)

func newSeedCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample quotes into a development database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if cfg.IsProduction() {
				return fmt.Errorf("seed is disabled when APP_ENV=production")
			}

			ctx := context.Background()
			dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
			if err != nil {
				return err
			}
			defer dbConn.Close()

			generator, err := trackingcode.New(cfg.Tracking.Mode)
			if err != nil {
				return err
			}

			// шина без подписчиков: сидер не шлет писем и не пишет в таблицу
			bus := eventbus.New(logger)
			txManager := repositories.NewTxManager(dbConn)
			quoteRepo := repositories.NewQuoteRepository(dbConn, logger)
			statusRepo := repositories.NewStatusEntryRepository(dbConn)

			codes, err := seeders.SeedQuotes(ctx,
				services.NewQuoteService(txManager, quoteRepo, statusRepo, generator, bus, services.NopRecorder(), logger),
				services.NewTrackingService(txManager, quoteRepo, statusRepo, bus, services.NopRecorder(), logger),
				count, logger,
			)
			for _, code := range codes {
				fmt.Fprintln(cmd.OutOrStdout(), code)
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of quotes to create")

	return cmd
}
