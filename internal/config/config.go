// Package config loads run configuration from command-line flags,
// environment variables and an optional .env file.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"boxoffice/internal/errors"
	"boxoffice/internal/pipeline"
)

// Sink names accepted by DatasetSink and ManifestSink.
const (
	SinkFile  = "file"
	SinkKafka = "kafka"
	SinkBoth  = "both"
	SinkNone  = "none"
)

// Config holds the configuration of one prepare run.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Pipeline PipelineConfig
	Output   OutputConfig
	Kafka    KafkaConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string // json|pretty, empty = by environment
}

// PipelineConfig holds the data preparation parameters.
type PipelineConfig struct {
	InputPath     string
	StartYear     int
	NumYears      int
	ReferenceYear int
}

// OutputConfig controls where results are written.
type OutputConfig struct {
	Dir          string
	DatasetSink  string // file|kafka|both
	ManifestSink string // file|kafka|both|none
	ChartPath    string // .png or .svg; empty disables rendering
	MetricsFile  string // Prometheus textfile; empty disables
}

// KafkaConfig holds broker settings for the kafka sinks.
type KafkaConfig struct {
	Bootstrap     string
	Topic         string
	ManifestTopic string
}

// Load builds a Config with precedence flag > environment > .env file >
// default. now supplies the default reference year.
func Load(args []string, now time.Time) (*Config, error) {
	fs := flag.NewFlagSet("prepare", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (json, pretty)")

	input := fs.String("input", "", "Path to the movies JSON document")
	startYear := fs.String("start-year", "", "Earliest release year kept (default: 2008)")
	numYears := fs.String("num-years", "", "Number of seasonal band years (default: 10)")
	refYear := fs.String("reference-year", "", "Inflation reference year (default: current year)")

	outDir := fs.String("out", "", "Output directory for dataset and manifest (default: ./out)")
	datasetSink := fs.String("dataset-sink", "", "Dataset sink: file|kafka|both")
	manifestSink := fs.String("manifest-sink", "", "Manifest sink: file|kafka|both|none")
	chartPath := fs.String("chart", "", "Render chart to this .png/.svg path")
	metricsFile := fs.String("metrics-file", "", "Write Prometheus metrics to this textfile")

	bootstrap := fs.String("kafka-bootstrap", "", "Kafka bootstrap servers, e.g. localhost:9092")
	topic := fs.String("kafka-topic", "", "Kafka topic for dataset records")
	manifestTopic := fs.String("kafka-manifest-topic", "", "Kafka topic for the manifest (compacted)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, errors.Validation("parse flags").WithCause(err)
	}

	// Missing .env is fine; variables already set in the environment win.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			Format: getConfigValue(*logFormat, "LOG_FORMAT", ""),
		},
		Pipeline: PipelineConfig{
			InputPath: getConfigValue(*input, "INPUT_PATH", "testdata/movies.json"),
		},
		Output: OutputConfig{
			Dir:          getConfigValue(*outDir, "OUTPUT_DIR", "./out"),
			DatasetSink:  getConfigValue(*datasetSink, "DATASET_SINK", SinkFile),
			ManifestSink: getConfigValue(*manifestSink, "MANIFEST_SINK", SinkFile),
			ChartPath:    getConfigValue(*chartPath, "CHART_PATH", ""),
			MetricsFile:  getConfigValue(*metricsFile, "METRICS_FILE", ""),
		},
		Kafka: KafkaConfig{
			Bootstrap:     getConfigValue(*bootstrap, "KAFKA_BOOTSTRAP", ""),
			Topic:         getConfigValue(*topic, "KAFKA_TOPIC", "boxoffice.dataset"),
			ManifestTopic: getConfigValue(*manifestTopic, "KAFKA_MANIFEST_TOPIC", "boxoffice.manifest"),
		},
	}

	var err error
	if cfg.Pipeline.StartYear, err = getIntConfigValue(*startYear, "START_YEAR", pipeline.DefaultStartYear); err != nil {
		return nil, err
	}
	if cfg.Pipeline.NumYears, err = getIntConfigValue(*numYears, "NUM_YEARS", pipeline.DefaultNumYears); err != nil {
		return nil, err
	}
	if cfg.Pipeline.ReferenceYear, err = getIntConfigValue(*refYear, "REFERENCE_YEAR", now.Year()); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that all config values are present and consistent.
// Failures carry the VALIDATION code and name the offending key in Details.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[c.App.Environment] {
		return invalid("ENV", c.App.Environment, "must be development, staging, or production")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return invalid("LOG_LEVEL", c.Logger.Level, "must be debug, info, warn, or error")
	}
	if f := c.Logger.Format; f != "" && f != "json" && f != "pretty" {
		return invalid("LOG_FORMAT", f, "must be json or pretty")
	}

	if c.Pipeline.InputPath == "" {
		return invalid("INPUT_PATH", "", "is required")
	}
	if c.Pipeline.NumYears < 1 {
		return invalid("NUM_YEARS", strconv.Itoa(c.Pipeline.NumYears), "must be at least 1")
	}

	switch c.Output.DatasetSink {
	case SinkFile, SinkKafka, SinkBoth:
	default:
		return invalid("DATASET_SINK", c.Output.DatasetSink, "must be file, kafka, or both")
	}
	switch c.Output.ManifestSink {
	case SinkFile, SinkKafka, SinkBoth, SinkNone:
	default:
		return invalid("MANIFEST_SINK", c.Output.ManifestSink, "must be file, kafka, both, or none")
	}
	if (UsesKafka(c.Output.DatasetSink) || UsesKafka(c.Output.ManifestSink)) && c.Kafka.Bootstrap == "" {
		return invalid("KAFKA_BOOTSTRAP", "", "is required for kafka sinks")
	}

	if p := c.Output.ChartPath; p != "" {
		lower := strings.ToLower(p)
		if !strings.HasSuffix(lower, ".png") && !strings.HasSuffix(lower, ".svg") {
			return invalid("CHART_PATH", p, "must end in .png or .svg")
		}
	}
	return nil
}

// invalid builds a validation error for key.
func invalid(key, value, rule string) error {
	msg := fmt.Sprintf("invalid %s %q: %s", key, value, rule)
	if value == "" {
		msg = fmt.Sprintf("%s %s", key, rule)
	}
	return errors.Validation(msg).WithDetails(map[string]string{"key": key, "value": value})
}

// PipelineParams converts to the pipeline's parameters.
func (c *Config) PipelineParams() pipeline.Config {
	return pipeline.Config{
		StartYear:     c.Pipeline.StartYear,
		ReferenceYear: c.Pipeline.ReferenceYear,
		NumYears:      c.Pipeline.NumYears,
	}
}

// UsesFile reports whether sink includes the filesystem.
func UsesFile(sink string) bool { return sink == SinkFile || sink == SinkBoth }

// UsesKafka reports whether sink includes Kafka.
func UsesKafka(sink string) bool { return sink == SinkKafka || sink == SinkBoth }

// getConfigValue returns the flag value, then the environment value, then def.
func getConfigValue(flagValue, envKey, def string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return def
}

func getIntConfigValue(flagValue, envKey string, def int) (int, error) {
	s := getConfigValue(flagValue, envKey, "")
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Validation(fmt.Sprintf("invalid %s %q", envKey, s)).
			WithCause(err).
			WithDetails(map[string]string{"key": envKey, "value": s})
	}
	return n, nil
}
