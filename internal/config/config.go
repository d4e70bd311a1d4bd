// Package config loads the YAML configuration shared by the front ends.
package config

import (
	"encoding/json"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/presenter"
	"github.com/rxtech-lab/argo-forecast/internal/selector"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/internal/writer"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OutputConfig selects an optional export of the displayed rows.
type OutputConfig struct {
	Format writer.Format `yaml:"format" json:"format" jsonschema:"title=Format,description=Export format of the displayed rows,enum=none,enum=csv,enum=parquet" validate:"omitempty,oneof=none csv parquet"`
	Path   string        `yaml:"path" json:"path" jsonschema:"title=Path,description=File the rows are exported to"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr" jsonschema:"title=Address,description=Listen address of the HTTP server" validate:"required"`
}

// Config is the forecast configuration.
type Config struct {
	ModelPath        string                     `yaml:"model_path" json:"model_path" jsonschema:"title=Model Path,description=Path to the model artifact,required" validate:"required"`
	LogLevel         string                     `yaml:"log_level" json:"log_level" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error" validate:"omitempty,oneof=debug info warn error"`
	HeadRows         int                        `yaml:"head_rows" json:"head_rows" jsonschema:"title=Head Rows,description=Number of feature rows previewed,minimum=1" validate:"min=1"`
	DecimalPrecision int                        `yaml:"decimal_precision" json:"decimal_precision" jsonschema:"title=Decimal Precision,description=Decimals shown for prices,minimum=0,maximum=8" validate:"min=0,max=8"`
	Series           []string                   `yaml:"series" json:"series" jsonschema:"title=Series,description=Chart series drawn by default" validate:"dive,oneof=Close Predicted_Close"`
	VolumeAliases    []string                   `yaml:"volume_aliases" json:"volume_aliases" jsonschema:"title=Volume Aliases,description=Extra column names accepted for Volume"`
	StartDate        optional.Option[time.Time] `yaml:"start_date" json:"start_date" jsonschema:"title=Start Date,description=Optional first date shown"`
	EndDate          optional.Option[time.Time] `yaml:"end_date" json:"end_date" jsonschema:"title=End Date,description=Optional last date shown"`
	Output           OutputConfig               `yaml:"output" json:"output" jsonschema:"title=Output"`
	Server           ServerConfig               `yaml:"server" json:"server" jsonschema:"title=Server"`
}

// yamlConfig is the wire form of Config. Dates are pointers so an absent key stays None.
type yamlConfig struct {
	ModelPath        string       `yaml:"model_path"`
	LogLevel         string       `yaml:"log_level"`
	HeadRows         int          `yaml:"head_rows"`
	DecimalPrecision int          `yaml:"decimal_precision"`
	Series           []string     `yaml:"series"`
	VolumeAliases    []string     `yaml:"volume_aliases,omitempty"`
	StartDate        *time.Time   `yaml:"start_date,omitempty"`
	EndDate          *time.Time   `yaml:"end_date,omitempty"`
	Output           OutputConfig `yaml:"output"`
	Server           ServerConfig `yaml:"server"`
}

// Default returns the configuration used for keys absent from a file.
func Default() Config {
	return Config{
		ModelPath:        "",
		LogLevel:         "info",
		HeadRows:         presenter.DefaultHeadRows,
		DecimalPrecision: presenter.DefaultPrecision,
		Series:           []string{string(types.SeriesClose), string(types.SeriesPredictedClose)},
		VolumeAliases:    nil,
		StartDate:        optional.None[time.Time](),
		EndDate:          optional.None[time.Time](),
		Output: OutputConfig{
			Format: writer.FormatNone,
			Path:   "",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// UnmarshalYAML keeps the current values of absent keys.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	raw := c.toYAML()
	if err := unmarshal(&raw); err != nil {
		return err
	}

	c.ModelPath = raw.ModelPath
	c.LogLevel = raw.LogLevel
	c.HeadRows = raw.HeadRows
	c.DecimalPrecision = raw.DecimalPrecision
	c.Series = raw.Series
	c.VolumeAliases = raw.VolumeAliases
	c.StartDate = optional.None[time.Time]()
	c.EndDate = optional.None[time.Time]()

	if raw.StartDate != nil {
		c.StartDate = optional.Some(*raw.StartDate)
	}

	if raw.EndDate != nil {
		c.EndDate = optional.Some(*raw.EndDate)
	}

	c.Output = raw.Output
	c.Server = raw.Server

	return nil
}

// MarshalYAML writes optional dates as plain values.
func (c Config) MarshalYAML() (interface{}, error) {
	return c.toYAML(), nil
}

func (c Config) toYAML() yamlConfig {
	raw := yamlConfig{
		ModelPath:        c.ModelPath,
		LogLevel:         c.LogLevel,
		HeadRows:         c.HeadRows,
		DecimalPrecision: c.DecimalPrecision,
		Series:           c.Series,
		VolumeAliases:    c.VolumeAliases,
		StartDate:        nil,
		EndDate:          nil,
		Output:           c.Output,
		Server:           c.Server,
	}

	if c.StartDate.IsSome() {
		start := c.StartDate.Unwrap()
		raw.StartDate = &start
	}

	if c.EndDate.IsSome() {
		end := c.EndDate.Unwrap()
		raw.EndDate = &end
	}

	return raw
}

// Load reads, parses and validates a configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return Parse(data)
}

// Parse decodes data over Default and validates the result.
func Parse(data []byte) (Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

// Validate checks field constraints and the relations between fields.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if c.StartDate.IsSome() && c.EndDate.IsSome() && c.StartDate.Unwrap().After(c.EndDate.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "start_date must not be after end_date")
	}

	if c.Output.Format != writer.FormatNone && c.Output.Format != "" && c.Output.Path == "" {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "output.path is required for format %s", c.Output.Format)
	}

	return nil
}

// ChartSeries returns the configured series selection.
func (c Config) ChartSeries() ([]types.ChartSeries, error) {
	return types.ParseSeries(c.Series)
}

// Aliases returns the configured column aliases keyed by canonical name.
func (c Config) Aliases() map[string][]string {
	if len(c.VolumeAliases) == 0 {
		return nil
	}

	return map[string][]string{
		types.ColumnVolume: append([]string(nil), c.VolumeAliases...),
	}
}

// RangeRequest returns the configured date range.
func (c Config) RangeRequest() selector.RangeRequest {
	return selector.RangeRequest{
		Start: c.StartDate,
		End:   c.EndDate,
	}
}

// GenerateSchema generates a JSON schema for Config.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(optional.Option[time.Time]{}) {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "argo-forecast-config"
	schema.Description = "Configuration schema for argo-forecast"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for Config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
