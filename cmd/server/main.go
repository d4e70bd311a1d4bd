package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/config"
	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/internal/model"
	"github.com/rxtech-lab/argo-forecast/internal/pipeline"
	"github.com/rxtech-lab/argo-forecast/internal/server"
	"github.com/rxtech-lab/argo-forecast/internal/version"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cmd := &cli.Command{
		Name:    "server",
		Usage:   "Serve closing price predictions over HTTP",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:    "model",
				Aliases: []string{"m"},
				Usage:   "Path to the model artifact (overrides model_path)",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides server.addr)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			// Setup signal handling
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, settings, nil)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadSettings(cmd *cli.Command) (config.Config, error) {
	settings := config.Default()

	if path := cmd.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}

		settings = loaded
	}

	if cmd.IsSet("model") {
		settings.ModelPath = cmd.String("model")
	}

	if cmd.IsSet("addr") {
		settings.Server.Addr = cmd.String("addr")
	}

	if cmd.IsSet("log-level") {
		settings.LogLevel = cmd.String("log-level")
	}

	if err := settings.Validate(); err != nil {
		return config.Config{}, err
	}

	return settings, nil
}

// serve runs the HTTP server until ctx is done, then shuts it down gracefully.
// ready is called with the bound address once the server accepts requests.
func serve(ctx context.Context, settings config.Config, ready func(addr string)) error {
	log, err := logger.NewLoggerWithLevel(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	regression, err := model.Load(settings.ModelPath)
	if err != nil {
		return err
	}

	series, err := settings.ChartSeries()
	if err != nil {
		return err
	}

	p := pipeline.New(regression,
		pipeline.WithLogger(log),
		pipeline.WithHeadRows(settings.HeadRows),
		pipeline.WithAliases(settings.Aliases()),
		pipeline.WithSeries(series),
	)

	srv := server.New(p, log)
	if err := srv.Start(settings.Server.Addr); err != nil {
		return err
	}

	if ready != nil {
		ready(srv.Addr())
	}

	<-ctx.Done()

	log.Info("Shutting down HTTP server", zap.String("addr", srv.Addr()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
