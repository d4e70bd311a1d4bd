package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/config"
	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/internal/model"
	"github.com/rxtech-lab/argo-forecast/internal/pipeline"
	"github.com/rxtech-lab/argo-forecast/internal/presenter"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "dashboard",
		Usage:   "Interactive terminal dashboard for closing price predictions",
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
			&cli.TimestampFlag{
				Name:   "start",
				Usage:  "Initial start date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{Layouts: []string{types.DateLayout}},
			},
			&cli.TimestampFlag{
				Name:   "end",
				Usage:  "Initial end date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{Layouts: []string{types.DateLayout}},
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "File receiving the pipeline logs",
				Value: filepath.Join(os.TempDir(), "argo-forecast-dashboard.log"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			m, err := newModel(settings, cmd.String("log-file"))
			if err != nil {
				return err
			}

			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()

			return err
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

	if cmd.IsSet("start") {
		settings.StartDate = optional.Some(cmd.Timestamp("start"))
	}

	if cmd.IsSet("end") {
		settings.EndDate = optional.Some(cmd.Timestamp("end"))
	}

	if err := settings.Validate(); err != nil {
		return config.Config{}, err
	}

	return settings, nil
}

// newModel loads the model artifact once and wires the pipeline used for every file.
func newModel(settings config.Config, logFile string) (Model, error) {
	log, err := logger.NewFileLogger(logFile, settings.LogLevel)
	if err != nil {
		return Model{}, fmt.Errorf("failed to create logger: %w", err)
	}

	regression, err := model.Load(settings.ModelPath)
	if err != nil {
		return Model{}, err
	}

	series, err := settings.ChartSeries()
	if err != nil {
		return Model{}, err
	}

	p := pipeline.New(regression,
		pipeline.WithLogger(log),
		pipeline.WithHeadRows(settings.HeadRows),
		pipeline.WithAliases(settings.Aliases()),
		pipeline.WithSeries(series),
	)

	return NewModel(p, presenter.NewRenderer(settings.DecimalPrecision), settings.RangeRequest()), nil
}
