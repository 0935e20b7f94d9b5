package settings

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// 첫 시즌: nflverse player_stats 릴리스 기준
const firstSeason = 1999

// 정규시즌 최대 주차 (17경기 + bye)
const maxWeek = 18

var numericColumns = map[string]bool{
	"completions":   true,
	"attempts":      true,
	"passing_yards": true,
	"passing_tds":   true,
	"interceptions": true,
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Acquire ===
	if len(cfg.Acquire.Seasons) == 0 {
		return ValidationError{"acquire.seasons", "at least one season required"}
	}
	seen := make(map[int]bool)
	for _, s := range cfg.Acquire.Seasons {
		if s < firstSeason {
			return ValidationError{"acquire.seasons", fmt.Sprintf("season %d is before %d", s, firstSeason)}
		}
		if seen[s] {
			return ValidationError{"acquire.seasons", fmt.Sprintf("season %d listed twice", s)}
		}
		seen[s] = true
	}
	if cfg.Acquire.RawDir == "" {
		return ValidationError{"acquire.raw_dir", "required"}
	}

	// === Clean ===
	if cfg.Clean.WeekCutoff < 1 || cfg.Clean.WeekCutoff > maxWeek {
		return ValidationError{"clean.week_cutoff", fmt.Sprintf("must be in [1, %d]", maxWeek)}
	}
	if cfg.Clean.AnalysisDir == "" {
		return ValidationError{"clean.analysis_dir", "required"}
	}
	if cfg.Clean.AnalysisDir == cfg.Acquire.RawDir {
		return ValidationError{"clean.analysis_dir", "must differ from acquire.raw_dir"}
	}

	// === Model ===
	if len(cfg.Model.Features) == 0 {
		return ValidationError{"model.features", "at least one feature required"}
	}
	for _, f := range cfg.Model.Features {
		if !numericColumns[f] {
			return ValidationError{"model.features", fmt.Sprintf("unknown feature %q", f)}
		}
	}
	if cfg.Model.TestFraction <= 0 || cfg.Model.TestFraction >= 1 {
		return ValidationError{"model.test_fraction", "must be in (0, 1)"}
	}
	if cfg.Model.MaxIterations <= 0 {
		return ValidationError{"model.max_iterations", "must be > 0"}
	}
	if cfg.Model.C <= 0 {
		return ValidationError{"model.c", "must be > 0"}
	}
	if cfg.Model.Path == "" {
		return ValidationError{"model.path", "required"}
	}

	// === Schedule ===
	if cfg.Schedule.Enabled {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(cfg.Schedule.Cron); err != nil {
			return ValidationError{"schedule.cron", err.Error()}
		}
	}

	return nil
}
