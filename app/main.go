// Файл: app/main.go

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"repair-tracker/pkg/config"
	applogger "repair-tracker/pkg/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "repair-tracker",
		Short:         "Q Solutions repair tracking API",
		Long:          `Quote intake, public repair tracking and the admin tools around them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newUpdateStatusCommand(),
		newHashKeyCommand(),
		newSeedCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig читает окружение один раз и собирает логгер для команды.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := applogger.NewLogger(cfg.Log, cfg.IsProduction())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger, nil
}
