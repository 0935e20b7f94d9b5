package s2_quality

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/wonny/epaforecast/internal/contracts"
	"github.com/wonny/epaforecast/internal/s0_data"
	"github.com/wonny/epaforecast/pkg/logger"
)

// Check names, in execution order
const (
	CheckNonEmpty        = "non_empty"
	CheckEPAPresent      = "passing_epa_present"
	CheckSeasonInt       = "season_int"
	CheckWeekInt         = "week_int"
	CheckEPAFloat        = "passing_epa_float"
	CheckWeekRange       = "week_range"
	CheckSeasonType      = "season_type_regular"
	CheckNoDuplicates    = "no_duplicates"
	CheckNonNegativeStat = "non_negative"
)

// ValidationError 검증 실패 (첫 실패에서 중단)
type ValidationError struct {
	Check   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CheckResult is one executed check
type CheckResult struct {
	Name   string
	Passed bool
	Detail string
}

// Report lists the checks that ran
type Report struct {
	Path   string
	Rows   int
	Checks []CheckResult
}

// Passed reports whether every executed check passed
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return len(r.Checks) > 0
}

// Validator runs S2 over a cleaned CSV
// ⭐ SSOT: 정제 데이터 검증 규칙은 여기서만
type Validator struct {
	weekMin int
	weekMax int
	logger  *logger.Logger
}

// NewValidator creates a validator accepting weeks in [1, weekCutoff]
func NewValidator(weekCutoff int, log *logger.Logger) *Validator {
	return &Validator{
		weekMin: 1,
		weekMax: weekCutoff,
		logger:  log.WithField("module", "s2_quality"),
	}
}

// Validate loads path and runs all checks; read errors propagate unchanged
func (v *Validator) Validate(path string) (*Report, error) {
	df, err := s0_data.ReadFrame(path)
	if err != nil {
		return nil, err
	}

	report, err := v.ValidateFrame(df)
	report.Path = path
	return report, err
}

// ValidateFrame runs the checks in order and stops at the first failure
func (v *Validator) ValidateFrame(df dataframe.DataFrame) (*Report, error) {
	report := &Report{Rows: df.Nrow()}

	steps := []struct {
		name string
		run  func(dataframe.DataFrame) (string, string)
	}{
		{CheckNonEmpty, checkNonEmpty},
		{CheckEPAPresent, checkEPAPresent},
		{CheckSeasonInt, typeCheck(contracts.ColSeason, series.Int, "int")},
		{CheckWeekInt, typeCheck(contracts.ColWeek, series.Int, "int")},
		{CheckEPAFloat, typeCheck(contracts.ColPassingEPA, series.Float, "float")},
		{CheckWeekRange, v.checkWeekRange},
		{CheckSeasonType, checkSeasonType},
		{CheckNoDuplicates, checkNoDuplicates},
		{CheckNonNegativeStat, checkNonNegative},
	}

	for _, step := range steps {
		msg, detail := step.run(df)
		if msg != "" {
			report.Checks = append(report.Checks, CheckResult{Name: step.name, Passed: false, Detail: detail})
			v.logger.WithFields(map[string]interface{}{
				"check":  step.name,
				"detail": detail,
			}).Error(msg)
			return report, &ValidationError{Check: step.name, Message: msg}
		}
		report.Checks = append(report.Checks, CheckResult{Name: step.name, Passed: true, Detail: detail})
	}

	v.logger.WithFields(map[string]interface{}{
		"rows":   report.Rows,
		"checks": len(report.Checks),
	}).Info("Validation passed")
	return report, nil
}

func checkNonEmpty(df dataframe.DataFrame) (string, string) {
	if df.Nrow() == 0 {
		return "Dataframe is empty.", "0 rows"
	}
	return "", fmt.Sprintf("%d rows", df.Nrow())
}

func checkEPAPresent(df dataframe.DataFrame) (string, string) {
	if !s0_data.HasColumn(df, contracts.ColPassingEPA) {
		return "'passing_epa' column is missing.", ""
	}
	return "", ""
}

func typeCheck(col string, want series.Type, label string) func(dataframe.DataFrame) (string, string) {
	return func(df dataframe.DataFrame) (string, string) {
		if !s0_data.HasColumn(df, col) {
			return fmt.Sprintf("'%s' column is missing.", col), ""
		}
		got := df.Col(col).Type()
		if got != want {
			return fmt.Sprintf("'%s' column is not of type %s.", col, label), string(got)
		}
		return "", string(got)
	}
}

func (v *Validator) checkWeekRange(df dataframe.DataFrame) (string, string) {
	weeks, err := df.Col(contracts.ColWeek).Int()
	detail := fmt.Sprintf("[%d, %d]", v.weekMin, v.weekMax)
	if err != nil {
		return "'week' column contains out-of-range values.", detail
	}
	for _, w := range weeks {
		if w < v.weekMin || w > v.weekMax {
			return "'week' column contains out-of-range values.", fmt.Sprintf("week %d outside %s", w, detail)
		}
	}
	return "", detail
}

func checkSeasonType(df dataframe.DataFrame) (string, string) {
	if !s0_data.HasColumn(df, contracts.ColSeasonType) {
		return "'season_type' column is missing.", ""
	}
	for _, st := range df.Col(contracts.ColSeasonType).Records() {
		if st != contracts.SeasonTypeRegular {
			return "'season_type' column contains unexpected values.", st
		}
	}
	return "", contracts.SeasonTypeRegular
}

func checkNoDuplicates(df dataframe.DataFrame) (string, string) {
	if !s0_data.HasColumn(df, contracts.ColPlayerID) {
		return "'player_id' column is missing.", ""
	}
	players := df.Col(contracts.ColPlayerID).Records()
	seasons := df.Col(contracts.ColSeason).Records()
	weeks := df.Col(contracts.ColWeek).Records()

	type key struct{ player, season, week string }
	seen := make(map[key]bool, len(players))
	for i := range players {
		k := key{players[i], seasons[i], weeks[i]}
		if seen[k] {
			return "Duplicate entries found for the same player in the same week.",
				fmt.Sprintf("player_id=%s season=%s week=%s", k.player, k.season, k.week)
		}
		seen[k] = true
	}
	return "", ""
}

// checkNonNegative: NaN도 위반으로 처리
func checkNonNegative(df dataframe.DataFrame) (string, string) {
	for _, col := range contracts.NonNegativeColumns() {
		if !s0_data.HasColumn(df, col) {
			return fmt.Sprintf("'%s' column is missing.", col), ""
		}
		for _, x := range df.Col(col).Float() {
			if math.IsNaN(x) || x < 0 {
				return fmt.Sprintf("'%s' column contains negative values.", col), fmt.Sprintf("%v", x)
			}
		}
	}
	return "", ""
}
