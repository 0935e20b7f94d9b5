package settings

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Config는 파이프라인 전체 설정 (단일 구조체로 모든 스테이지에 전달)
// ⭐ SSOT: 시즌/경로/컷오프/모델 하이퍼파라미터는 여기서만 정의
type Config struct {
	Meta     Meta     `yaml:"meta" json:"meta"`
	Acquire  Acquire  `yaml:"acquire" json:"acquire"`
	Clean    Clean    `yaml:"clean" json:"clean"`
	Model    Model    `yaml:"model" json:"model"`
	Schedule Schedule `yaml:"schedule" json:"schedule"`
}

// Meta 메타 정보
type Meta struct {
	PipelineID string `yaml:"pipeline_id" json:"pipeline_id"`
	Version    string `yaml:"version" json:"version"`
}

// Acquire S0: 원천 데이터 수집
type Acquire struct {
	Seasons []int  `yaml:"seasons" json:"seasons"`
	RawDir  string `yaml:"raw_dir" json:"raw_dir"`
	Persist bool   `yaml:"persist" json:"persist"` // DATABASE_URL 설정 시 data.weekly_qb_stats 적재
}

// Clean S1/S2: 정제 + 검증
type Clean struct {
	// WeekCutoff 정제(week <= cutoff)와 검증([1, cutoff]) 모두 이 값을 사용
	WeekCutoff  int    `yaml:"week_cutoff" json:"week_cutoff"`
	AnalysisDir string `yaml:"analysis_dir" json:"analysis_dir"`
}

// Model S3: 로지스틱 회귀
type Model struct {
	Features      []string `yaml:"features" json:"features"`
	Seed          int64    `yaml:"seed" json:"seed"`
	TestFraction  float64  `yaml:"test_fraction" json:"test_fraction"`
	MaxIterations int      `yaml:"max_iterations" json:"max_iterations"`
	C             float64  `yaml:"c" json:"c"` // inverse L2 strength
	Path          string   `yaml:"path" json:"path"`
	Register      bool     `yaml:"register" json:"register"` // DATABASE_URL 설정 시 forecast.model_runs 기록
}

// Schedule 스케줄러 (robfig/cron, 초 단위 6필드)
type Schedule struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Cron    string `yaml:"cron" json:"cron"`
}

// Default returns the settings that reproduce the original no-argument runs
func Default() *Config {
	return &Config{
		Meta: Meta{
			PipelineID: "passing_epa",
			Version:    "1",
		},
		Acquire: Acquire{
			Seasons: []int{2023},
			RawDir:  "data/raw_data",
		},
		Clean: Clean{
			WeekCutoff:  9,
			AnalysisDir: "data/analysis_data",
		},
		Model: Model{
			Features:      []string{"completions", "attempts", "passing_yards", "passing_tds", "interceptions"},
			Seed:          42,
			TestFraction:  0.2,
			MaxIterations: 1000,
			C:             1.0,
			Path:          "models/passing_epa_forecasting_model.json",
		},
		Schedule: Schedule{
			Enabled: false,
			// 매주 화요일 06:00 (월요일 경기 반영 후)
			Cron: "0 0 6 * * TUE",
		},
	}
}

// RawPath returns the S0 output path, e.g. data/raw_data/weekly_qb_stats_2023.csv
func (c *Config) RawPath() string {
	years := make([]string, len(c.Acquire.Seasons))
	for i, y := range c.Acquire.Seasons {
		years[i] = strconv.Itoa(y)
	}
	return c.Acquire.RawDir + "/weekly_qb_stats_" + strings.Join(years, "_") + ".csv"
}

// CleanedPath derives the S1 output path from a raw path by substituting
// "<raw_dir>/" with "<analysis_dir>/cleaned_"
func (c *Config) CleanedPath(rawPath string) string {
	from := c.Acquire.RawDir + "/"
	if strings.Contains(rawPath, from) {
		return strings.Replace(rawPath, from, c.Clean.AnalysisDir+"/cleaned_", 1)
	}
	// raw_dir 밖의 파일: 원본 덮어쓰기 방지
	return filepath.ToSlash(filepath.Join(c.Clean.AnalysisDir, "cleaned_"+filepath.Base(rawPath)))
}
