package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/ansuz/internal"
	pkgconfig "github.com/starford/ansuz/pkg/config"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if configPath := cmd.String("config"); configPath != "" {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if dirs := cmd.Args().Slice(); len(dirs) > 0 {
		cfg.Library.Paths = dirs
	}

	switch {
	case cmd.Bool("debug"):
		cfg.App.LogLevel = slog.LevelDebug
	case cmd.Bool("verbose"):
		cfg.App.LogLevel = slog.LevelInfo
	}
	if cmd.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if cmd.Bool("all-links") {
		cfg.Report.AllLinks = true
	}
	if cmd.Bool("non-md") {
		cfg.Report.NonMD = true
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.App.HTTP.Port = int(port)
	}

	cfg.Run.History = cmd.Bool("history")
	cfg.Run.Watch = cmd.Bool("watch")
	cfg.Run.Serve = cmd.Bool("serve")
	cfg.Run.MCP = cmd.Bool("mcp")

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:      "ansuz",
		Usage:     "Audit Markdown libraries for floating articles and missing links, with incremental change tracking",
		ArgsUsage: "[library-dir ...]",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (optional)",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:    "all-links",
				Aliases: []string{"a"},
				Usage:   "Also print every link found, per article",
			},
			&cli.BoolFlag{
				Name:    "non-md",
				Aliases: []string{"n"},
				Usage:   "Also print links that do not resolve to local Markdown documents",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable the snapshot cache: treat every run as a first run and persist nothing",
			},
			&cli.BoolFlag{
				Name:  "history",
				Usage: "Print the stored change log and exit without auditing",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Keep running and re-audit when the library changes",
			},
			&cli.BoolFlag{
				Name:    "serve",
				Aliases: []string{"s"},
				Usage:   "Watch the library and expose the latest report over HTTP",
			},
			&cli.BoolFlag{
				Name:  "mcp",
				Usage: "Serve audit tools over MCP stdio transport",
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP port for serve mode",
				Sources: cli.EnvVars("APP_HTTP_PORT"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log progress details",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Log debug details, including every detected change",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
