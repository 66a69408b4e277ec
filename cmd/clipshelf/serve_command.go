package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"clipshelf/internal/catalog"
	"clipshelf/internal/clip"
	"clipshelf/internal/logging"
	"clipshelf/internal/relink"
	"clipshelf/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			store, err := catalog.Open(cfg, logger)
			if err != nil {
				return err
			}

			handlers := server.NewHandlers(cfg, store,
				clip.NewPipeline(cfg, logger),
				relink.NewMatcher(cfg, store, logger),
				logger)

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Run(runCtx, cfg.Paths.APIBind, server.NewRouter(handlers, logger), logger)
		},
	}
}
