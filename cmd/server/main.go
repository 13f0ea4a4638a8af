package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"postboard/internal/app"
	"postboard/internal/config"
	"postboard/internal/logger"
)

func main() {
	// Pretty logs until the configuration says otherwise.
	slog.SetDefault(slog.New(logger.NewPrettyHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cliApp := &cli.App{
		Name:  "postboard",
		Usage: "Share short posts with everyone",
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
		},
		// No subcommand means serve with the configured port.
		Action: func(c *cli.Context) error {
			return serve(c.Context, "")
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func serveCmd() *cli.Command {
	var port string
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "port",
				Aliases:     []string{"p"},
				Usage:       "Port to listen on; overrides SERVER_PORT",
				Destination: &port,
			},
		},
		Action: func(c *cli.Context) error {
			return serve(c.Context, port)
		},
	}
}

func serve(ctx context.Context, port string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port != "" {
		cfg.ServerPort = port
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	return application.Run(ctx)
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations and exit",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			return app.Migrate(c.Context, cfg)
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat))
	return cfg, nil
}
