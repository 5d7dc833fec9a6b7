package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/peerline/signald/internal/app"
	"github.com/peerline/signald/internal/config"
	"github.com/peerline/signald/internal/log"
)

func main() {
	var (
		configPath string
		addr       string
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:          "signald",
		Short:        "WebRTC signaling relay with room-scoped presence",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bootstrapLog := log.New("info")

			cfg, path, err := config.Load(bootstrapLog, configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			logger := log.New(cfg.LogLevel)
			logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting signald")

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := application.Run(ctx); err != nil {
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
