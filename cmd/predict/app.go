package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/config"
	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/internal/model"
	"github.com/rxtech-lab/argo-forecast/internal/pipeline"
	"github.com/rxtech-lab/argo-forecast/internal/presenter"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/internal/version"
	"github.com/rxtech-lab/argo-forecast/internal/writer"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

var dateLayouts = cli.TimestampConfig{
	Layouts: []string{types.DateLayout},
}

func settingsFlags() []cli.Flag {
	return []cli.Flag{
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
			Name:    "start",
			Aliases: []string{"s"},
			Usage:   "First date shown in `YYYY-MM-DD` format. Defaults to the earliest date.",
			Config:  dateLayouts,
		},
		&cli.TimestampFlag{
			Name:    "end",
			Aliases: []string{"e"},
			Usage:   "Last date shown in `YYYY-MM-DD` format. Defaults to the latest date.",
			Config:  dateLayouts,
		},
		&cli.StringSliceFlag{
			Name:  "series",
			Usage: fmt.Sprintf("Chart series to draw (%s, %s)", types.SeriesClose, types.SeriesPredictedClose),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Export path for the displayed rows",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   fmt.Sprintf("Export format (%s, %s, %s)", writer.FormatNone, writer.FormatCSV, writer.FormatParquet),
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
		},
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "predict",
		Usage:   "Predict closing prices from historical price tables",
		Version: version.GetVersion(),
		Writer:  out,
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Predict one CSV or XLSX file and print the result",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the price table",
						Required: true,
					},
				}, settingsFlags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runAction(cmd, out)
				},
			},
			{
				Name:  "batch",
				Usage: "Predict every file matching a glob, one independent run per file",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Glob of price tables, e.g. `data/*.csv`",
						Required: true,
					},
				}, settingsFlags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return batchAction(cmd, out)
				},
			},
			{
				Name:  "inspect",
				Usage: "Print the rows of a Parquet export within a date range",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the Parquet export",
						Required: true,
					},
					&cli.TimestampFlag{
						Name:     "start",
						Aliases:  []string{"s"},
						Usage:    "First date in `YYYY-MM-DD` format",
						Config:   dateLayouts,
						Required: true,
					},
					&cli.TimestampFlag{
						Name:     "end",
						Aliases:  []string{"e"},
						Usage:    "Last date in `YYYY-MM-DD` format",
						Config:   dateLayouts,
						Required: true,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return inspectAction(cmd, out)
				},
			},
		},
	}
}

// loadSettings reads the optional config file and applies flag overrides.
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

	if cmd.IsSet("series") {
		settings.Series = cmd.StringSlice("series")
	}

	if cmd.IsSet("output") {
		settings.Output.Path = cmd.String("output")

		if settings.Output.Format == writer.FormatNone || settings.Output.Format == "" {
			settings.Output.Format = formatFromExtension(settings.Output.Path)
		}
	}

	if cmd.IsSet("format") {
		settings.Output.Format = writer.Format(cmd.String("format"))
	}

	if cmd.IsSet("log-level") {
		settings.LogLevel = cmd.String("log-level")
	}

	if err := settings.Validate(); err != nil {
		return config.Config{}, err
	}

	return settings, nil
}

func formatFromExtension(path string) writer.Format {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return writer.FormatParquet
	}

	return writer.FormatCSV
}

// newPipeline loads the model once and builds the pipeline from settings.
func newPipeline(settings config.Config) (*pipeline.Pipeline, *logger.Logger, error) {
	log, err := logger.NewLoggerWithLevel(settings.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	m, err := model.Load(settings.ModelPath)
	if err != nil {
		return nil, nil, err
	}

	series, err := settings.ChartSeries()
	if err != nil {
		return nil, nil, err
	}

	p := pipeline.New(m,
		pipeline.WithLogger(log),
		pipeline.WithHeadRows(settings.HeadRows),
		pipeline.WithAliases(settings.Aliases()),
		pipeline.WithSeries(series),
	)

	return p, log, nil
}

func runAction(cmd *cli.Command, out io.Writer) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	p, log, err := newPipeline(settings)
	if err != nil {
		return err
	}
	defer log.Sync()

	result, err := p.RunFile(cmd.String("data"), settings.RangeRequest())
	if err != nil {
		return err
	}

	renderer := presenter.NewRenderer(settings.DecimalPrecision)
	fmt.Fprint(out, renderer.Render(result.Payload, presenter.DefaultChartWidth, presenter.DefaultChartHeight))

	path, err := export(settings.Output, result.Payload.Rows)
	if err != nil {
		return err
	}

	if path != "" {
		fmt.Fprintf(out, "Exported %d rows to %s\n", len(result.Payload.Rows), path)
	}

	return nil
}

// export writes rows when an output format is configured and returns the written path.
func export(output config.OutputConfig, rows []types.DisplayRow) (string, error) {
	w, err := writer.New(output.Format, output.Path)
	if err != nil || w == nil {
		return "", err
	}

	return writer.WriteAll(w, rows)
}

func batchAction(cmd *cli.Command, out io.Writer) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	files, err := filepath.Glob(cmd.String("data"))
	if err != nil {
		return fmt.Errorf("invalid glob %q: %w", cmd.String("data"), err)
	}

	if len(files) == 0 {
		return fmt.Errorf("no files match %q", cmd.String("data"))
	}

	sort.Strings(files)

	p, log, err := newPipeline(settings)
	if err != nil {
		return err
	}
	defer log.Sync()

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Predicting"),
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowCount(),
	)

	var (
		summary []string
		failed  int
	)

	for _, file := range files {
		line, err := batchOne(p, settings, file)
		if err != nil {
			failed++
			line = fmt.Sprintf("%s: %v", file, err)
		}

		summary = append(summary, line)
		bar.Add(1)
	}

	bar.Finish()
	fmt.Fprintln(out)

	for _, line := range summary {
		fmt.Fprintln(out, line)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}

	return nil
}

// batchOne runs a single file. An export path is treated as a directory receiving one file per input.
func batchOne(p *pipeline.Pipeline, settings config.Config, file string) (string, error) {
	result, err := p.RunFile(file, settings.RangeRequest())
	if err != nil {
		return "", err
	}

	line := fmt.Sprintf("%s: %d predicted, %d in %s", file, result.Predicted.Len(), len(result.Payload.Rows), result.Payload.Range)

	output := settings.Output
	if output.Format == writer.FormatNone || output.Format == "" {
		return line, nil
	}

	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	output.Path = filepath.Join(output.Path, base+"."+string(output.Format))

	path, err := export(output, result.Payload.Rows)
	if err != nil {
		return "", err
	}

	return line + " -> " + path, nil
}

func inspectAction(cmd *cli.Command, out io.Writer) error {
	rng := types.NewDateRange(cmd.Timestamp("start"), cmd.Timestamp("end"))

	rows, err := writer.ReadParquetRange(cmd.String("file"), rng)
	if err != nil {
		return err
	}

	renderer := presenter.NewRenderer(presenter.DefaultPrecision)
	fmt.Fprintln(out, renderer.RenderTable(rows))

	return nil
}
