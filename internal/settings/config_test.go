package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, []int{2023}, cfg.Acquire.Seasons)
	assert.Equal(t, 9, cfg.Clean.WeekCutoff)
	assert.Equal(t, int64(42), cfg.Model.Seed)
	assert.Equal(t, 1000, cfg.Model.MaxIterations)
}

func TestPaths(t *testing.T) {
	cfg := Default()
	raw := cfg.RawPath()
	assert.Equal(t, "data/raw_data/weekly_qb_stats_2023.csv", raw)
	assert.Equal(t, "data/analysis_data/cleaned_weekly_qb_stats_2023.csv", cfg.CleanedPath(raw))

	cfg.Acquire.Seasons = []int{2022, 2023}
	assert.Equal(t, "data/raw_data/weekly_qb_stats_2022_2023.csv", cfg.RawPath())

	// raw_dir 밖의 파일은 analysis_dir 로
	assert.Equal(t, "data/analysis_data/cleaned_x.csv", cfg.CleanedPath("/tmp/x.csv"))
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeYAML(t, `
acquire:
  seasons: [2021, 2022]
clean:
  week_cutoff: 10
`)
	cfg, data, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	want := Default()
	want.Acquire.Seasons = []int{2021, 2022}
	want.Clean.WeekCutoff = 10
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_UnknownField(t *testing.T) {
	path := writeYAML(t, "clean:\n  week_cutof: 9\n")
	_, _, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefault_EmptyPath(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"no seasons", func(c *Config) { c.Acquire.Seasons = nil }, "acquire.seasons"},
		{"old season", func(c *Config) { c.Acquire.Seasons = []int{1990} }, "acquire.seasons"},
		{"dup season", func(c *Config) { c.Acquire.Seasons = []int{2023, 2023} }, "acquire.seasons"},
		{"cutoff zero", func(c *Config) { c.Clean.WeekCutoff = 0 }, "clean.week_cutoff"},
		{"same dirs", func(c *Config) { c.Clean.AnalysisDir = c.Acquire.RawDir }, "clean.analysis_dir"},
		{"bad feature", func(c *Config) { c.Model.Features = []string{"passing_epa"} }, "model.features"},
		{"test fraction", func(c *Config) { c.Model.TestFraction = 1 }, "model.test_fraction"},
		{"max iter", func(c *Config) { c.Model.MaxIterations = 0 }, "model.max_iterations"},
		{"c", func(c *Config) { c.Model.C = 0 }, "model.c"},
		{"cron", func(c *Config) { c.Schedule.Enabled = true; c.Schedule.Cron = "every tuesday" }, "schedule.cron"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			var vErr ValidationError
			require.True(t, errors.As(Validate(cfg), &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestValidate_DefaultCronParses(t *testing.T) {
	cfg := Default()
	cfg.Schedule.Enabled = true
	assert.NoError(t, Validate(cfg))
}

func TestHash_Deterministic(t *testing.T) {
	h1, err := Hash(Default())
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	h2, _ := Hash(Default())
	assert.Equal(t, h1, h2)

	changed := Default()
	changed.Model.Seed = 7
	h3, _ := Hash(changed)
	assert.NotEqual(t, h1, h3)
}
