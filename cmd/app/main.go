package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/kenaz-distill/internal"
	pkgconfig "github.com/starford/kenaz-distill/pkg/config"
)

// loadConfig reads the optional config file and applies command-line
// overrides. The API key is resolved here, once, and handed to the
// application explicitly.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("vault") {
		cfg.Vault.Path = cmd.String("vault")
	}
	if cmd.IsSet("model") {
		cfg.LLM.Model = cmd.String("model")
	}
	if key := cmd.String("api-key"); key != "" {
		cfg.LLM.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func ask(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Ask(ctx, cmd.String("query"), internal.WithConfig(cfg))
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Serve(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, internal.WithConfig(cfg))
}

func main() {
	vaultFlag := func(required bool) *cli.StringFlag {
		return &cli.StringFlag{
			Name:     "vault",
			Aliases:  []string{"v"},
			Usage:    "Path to the notes vault",
			Required: required,
			Sources:  cli.EnvVars("VAULT_PATH"),
		}
	}

	cmd := &cli.Command{
		Name:  "kenaz-distill",
		Usage: "Search a Markdown vault and distill the matching notes with an LLM",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "LLM model to use",
				Value:   internal.DefaultModel,
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the completion provider",
				Sources: cli.EnvVars("OPENAI_API_KEY"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "ask",
				Usage:  "Answer a query from the notes that mention it",
				Action: ask,
				Flags: []cli.Flag{
					vaultFlag(true),
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "What you want to ask your notes",
						Required: true,
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the search and distill HTTP API",
				Action: serve,
				Flags:  []cli.Flag{vaultFlag(false)},
			},
			{
				Name:   "mcp",
				Usage:  "Serve the note tools over MCP on stdin/stdout",
				Action: serveMCP,
				Flags:  []cli.Flag{vaultFlag(false)},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
