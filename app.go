package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"counterfactual_press/config"
	"counterfactual_press/credstore"
	"counterfactual_press/generator"
	"counterfactual_press/server"
	"counterfactual_press/session"
)

const credentialKey = "api_key"

// runApp wires the engine together and serves HTTP until shutdown.
func runApp(ctx context.Context, cfg *config.Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("addr", cfg.App.Addr),
		slog.String("provider", cfg.LLM.Provider),
		slog.String("model", cfg.LLM.Model))

	client, err := buildClient(cfg)
	if err != nil {
		return fmt.Errorf("init generation client: %w", err)
	}

	creds := credstore.New(cfg.Credentials.Path, logger)
	keyFn := func() string {
		if cfg.LLM.Provider == config.ProviderMock {
			return "mock"
		}
		return creds.Get(credentialKey, cfg.LLM.APIKey)
	}

	ctrl, err := session.NewController(client, keyFn, logger)
	if err != nil {
		return fmt.Errorf("init session controller: %w", err)
	}

	srv, err := server.New(ctrl, creds, logger)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.App.Addr,
		Handler: srv.Routes(),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	return g.Wait()
}

func buildClient(cfg *config.Config) (generator.Client, error) {
	switch cfg.LLM.Provider {
	case config.ProviderMock:
		return generator.MockClient{}, nil
	case config.ProviderOpenAI, config.ProviderDeepSeek:
		return generator.NewOpenAIClient(generator.Settings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			BaseURL:  cfg.LLM.BaseURL,
			Retry: generator.RetryPolicy{
				Attempts: cfg.LLM.RetryAttempts,
				Delay:    cfg.LLM.RetryDelay(),
			},
		})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}
