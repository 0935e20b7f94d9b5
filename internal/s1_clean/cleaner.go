package s1_clean

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/wonny/epaforecast/internal/contracts"
	"github.com/wonny/epaforecast/internal/s0_data"
	"github.com/wonny/epaforecast/internal/settings"
	"github.com/wonny/epaforecast/pkg/logger"
)

// Cleaner runs S1: mid-season snapshot of the raw weekly stats
// ⭐ SSOT: 정제 규칙(REG, week <= cutoff, 정수 캐스팅, EPA 결측 0)은 여기서만
type Cleaner struct {
	cfg    *settings.Config
	logger *logger.Logger
}

// CleanReport summarizes one cleaning run
type CleanReport struct {
	Input             string
	Output            string
	RowsIn            int
	DroppedSeasonType int
	DroppedWeek       int
	RowsOut           int
	EPAFilled         int
	Duration          time.Duration
}

// NewCleaner creates a new cleaner
func NewCleaner(cfg *settings.Config, log *logger.Logger) *Cleaner {
	return &Cleaner{
		cfg:    cfg,
		logger: log.WithField("module", "s1_clean"),
	}
}

// Clean reads rawPath, applies the cleaning rules and writes the cleaned CSV.
// Returns the output path derived from rawPath.
func (c *Cleaner) Clean(rawPath string) (string, *CleanReport, error) {
	start := time.Now()
	outPath := c.cfg.CleanedPath(rawPath)

	df, err := s0_data.ReadFrame(rawPath)
	if err != nil {
		return "", nil, err
	}

	for _, col := range []string{contracts.ColSeasonType, contracts.ColWeek, contracts.ColSeason, contracts.ColPassingEPA} {
		if !s0_data.HasColumn(df, col) {
			return "", nil, fmt.Errorf("clean %s: %w: %s", rawPath, contracts.ErrMissingColumn, col)
		}
	}

	report := &CleanReport{
		Input:  rawPath,
		Output: outPath,
		RowsIn: df.Nrow(),
	}

	// 1. 정규시즌
	df = df.Filter(dataframe.F{
		Colname:    contracts.ColSeasonType,
		Comparator: series.Eq,
		Comparando: contracts.SeasonTypeRegular,
	})
	if df.Err != nil {
		return "", nil, fmt.Errorf("filter season_type: %w", df.Err)
	}
	report.DroppedSeasonType = report.RowsIn - df.Nrow()

	// 2. week <= cutoff (NaN 주차는 제외)
	afterType := df.Nrow()
	df = df.Filter(dataframe.F{
		Colname:    contracts.ColWeek,
		Comparator: series.LessEq,
		Comparando: c.cfg.Clean.WeekCutoff,
	})
	if df.Err != nil {
		return "", nil, fmt.Errorf("filter week: %w", df.Err)
	}
	report.DroppedWeek = afterType - df.Nrow()

	// 3. season/week 정수 캐스팅
	for _, col := range []string{contracts.ColSeason, contracts.ColWeek} {
		df, err = castInt(df, col)
		if err != nil {
			return "", nil, err
		}
	}

	// 4. passing_epa 결측 → 0.0
	df, report.EPAFilled = fillZero(df, contracts.ColPassingEPA)
	if df.Err != nil {
		return "", nil, fmt.Errorf("fill passing_epa: %w", df.Err)
	}

	if err := s0_data.WriteFrame(outPath, df); err != nil {
		return "", nil, err
	}

	report.RowsOut = df.Nrow()
	report.Duration = time.Since(start)

	c.logger.WithFields(map[string]interface{}{
		"input":       rawPath,
		"output":      outPath,
		"rows_in":     report.RowsIn,
		"rows_out":    report.RowsOut,
		"epa_filled":  report.EPAFilled,
		"week_cutoff": c.cfg.Clean.WeekCutoff,
	}).Info("Cleaning completed")

	return outPath, report, nil
}

// castInt replaces col with its integer cast
func castInt(df dataframe.DataFrame, col string) (dataframe.DataFrame, error) {
	vals, err := df.Col(col).Int()
	if err != nil {
		return df, fmt.Errorf("cast %s to int: %w", col, err)
	}

	df = df.Mutate(series.New(vals, series.Int, col))
	if df.Err != nil {
		return df, fmt.Errorf("cast %s to int: %w", col, df.Err)
	}
	return df, nil
}

// fillZero replaces NaN in col with 0.0 and stores it as a float column
func fillZero(df dataframe.DataFrame, col string) (dataframe.DataFrame, int) {
	vals := df.Col(col).Float()
	filled := 0
	for i, v := range vals {
		if math.IsNaN(v) {
			vals[i] = 0
			filled++
		}
	}
	return df.Mutate(series.New(vals, series.Float, col)), filled
}
