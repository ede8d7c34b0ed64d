package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"meetnotes/internal/config"
	"meetnotes/internal/logging"
	"meetnotes/internal/server"
	"meetnotes/internal/services/gemini"
	"meetnotes/internal/summary"
	"meetnotes/internal/transcript"
)

func newServeCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the meetnotes API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			client := gemini.NewClient(gemini.Config{
				APIKey:          cfg.Gemini.APIKey,
				BaseURL:         cfg.Gemini.BaseURL,
				Model:           cfg.Gemini.Model,
				TimeoutSeconds:  cfg.Gemini.TimeoutSeconds,
				Temperature:     cfg.Gemini.Temperature,
				TopP:            cfg.Gemini.TopP,
				TopK:            cfg.Gemini.TopK,
				MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
			})
			store := summary.NewStore()
			service := summary.NewService(client, store, logger)
			intake := transcript.NewIntake(cfg.Upload.MaxBytes)

			srv, err := server.New(cfg, service, intake, logger)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			if err := srv.Start(ctx); err != nil {
				return fmt.Errorf("start server: %w", err)
			}

			<-ctx.Done()
			srv.Stop()
			logger.Info("meetnotes shutting down")
			return nil
		},
	}
}
