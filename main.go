package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"counterfactual_press/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Default()
	if err := config.Load(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if cmd.Bool("mock") {
		cfg.LLM.Provider = config.ProviderMock
	}
	if addr := cmd.String("addr"); addr != "" {
		cfg.App.Addr = addr
	}
	return runApp(ctx, cfg)
}

func main() {
	cmd := &cli.Command{
		Name:   "counterfactual-press",
		Usage:  "Alternate-history timeline studio: seed a divergence, grow a timeline, write its newspapers",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   "config/config.yaml",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "HTTP listen address (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "mock",
				Usage: "Use the deterministic mock backend instead of a live model",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
