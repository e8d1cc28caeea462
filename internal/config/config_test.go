package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/internal/errors"
)

var fixedNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

func noEnvFile(t *testing.T) string {
	return "-env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]string{noEnvFile(t)}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "testdata/movies.json", cfg.Pipeline.InputPath)
	assert.Equal(t, 2008, cfg.Pipeline.StartYear)
	assert.Equal(t, 10, cfg.Pipeline.NumYears)
	assert.Equal(t, 2026, cfg.Pipeline.ReferenceYear)
	assert.Equal(t, SinkFile, cfg.Output.DatasetSink)
	assert.Equal(t, SinkFile, cfg.Output.ManifestSink)
	assert.Equal(t, "boxoffice.dataset", cfg.Kafka.Topic)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("START_YEAR", "2010")
	t.Setenv("REFERENCE_YEAR", "2020")

	cfg, err := Load([]string{noEnvFile(t), "-start-year=2012"}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 2012, cfg.Pipeline.StartYear)
	assert.Equal(t, 2020, cfg.Pipeline.ReferenceYear)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("NUM_YEARS=4\nLOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() {
		_ = os.Unsetenv("NUM_YEARS")
		_ = os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := Load([]string{"-env-file=" + path}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Pipeline.NumYears)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_InvalidInt(t *testing.T) {
	_, err := Load([]string{noEnvFile(t), "-num-years=ten"}, fixedNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Contains(t, err.Error(), `invalid NUM_YEARS "ten"`)
}

func TestLoad_ErrorsAreValidation(t *testing.T) {
	_, err := Load([]string{noEnvFile(t), "-no-such-flag"}, fixedNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = Load([]string{noEnvFile(t), "-manifest-sink=s3"}, fixedNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestLoad_KafkaSinkRequiresBootstrap(t *testing.T) {
	_, err := Load([]string{noEnvFile(t), "-dataset-sink=kafka"}, fixedNow)
	require.Error(t, err)

	cfg, err := Load([]string{noEnvFile(t), "-dataset-sink=both", "-kafka-bootstrap=localhost:9092"}, fixedNow)
	require.NoError(t, err)
	assert.True(t, UsesFile(cfg.Output.DatasetSink))
	assert.True(t, UsesKafka(cfg.Output.DatasetSink))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:      AppConfig{Environment: "production"},
			Logger:   LoggerConfig{Level: "warn"},
			Pipeline: PipelineConfig{InputPath: "movies.json", StartYear: 2008, NumYears: 10, ReferenceYear: 2024},
			Output:   OutputConfig{Dir: "out", DatasetSink: SinkFile, ManifestSink: SinkNone},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		key    string
		mutate func(c *Config)
	}{
		{"bad environment", "ENV", func(c *Config) { c.App.Environment = "test" }},
		{"bad level", "LOG_LEVEL", func(c *Config) { c.Logger.Level = "loud" }},
		{"bad format", "LOG_FORMAT", func(c *Config) { c.Logger.Format = "xml" }},
		{"no input", "INPUT_PATH", func(c *Config) { c.Pipeline.InputPath = "" }},
		{"zero years", "NUM_YEARS", func(c *Config) { c.Pipeline.NumYears = 0 }},
		{"bad dataset sink", "DATASET_SINK", func(c *Config) { c.Output.DatasetSink = "none" }},
		{"bad manifest sink", "MANIFEST_SINK", func(c *Config) { c.Output.ManifestSink = "s3" }},
		{"kafka manifest without bootstrap", "KAFKA_BOOTSTRAP", func(c *Config) { c.Output.ManifestSink = SinkKafka }},
		{"bad chart extension", "CHART_PATH", func(c *Config) { c.Output.ChartPath = "chart.jpg" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation))

			var coded *errors.Error
			require.True(t, errors.As(err, &coded))
			assert.Equal(t, tt.key, coded.Details.(map[string]string)["key"])
		})
	}
}

func TestPipelineParams(t *testing.T) {
	c := &Config{Pipeline: PipelineConfig{StartYear: 2009, NumYears: 3, ReferenceYear: 2021}}
	p := c.PipelineParams()
	assert.Equal(t, 2009, p.StartYear)
	assert.Equal(t, 3, p.NumYears)
	assert.Equal(t, 2021, p.ReferenceYear)
	assert.Nil(t, p.Adjuster)
}
