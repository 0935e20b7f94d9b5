package s0_data

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/wonny/epaforecast/internal/contracts"
	"github.com/wonny/epaforecast/pkg/logger"
)

// SeasonSource downloads one season of raw weekly player stats
type SeasonSource interface {
	FetchSeasonCSV(ctx context.Context, season int) ([]byte, error)
}

// WeeklyStore persists acquired rows
type WeeklyStore interface {
	UpsertWeekly(ctx context.Context, records []contracts.WeeklyQBRecord) (int, error)
}

// Acquirer runs S0: download, select columns, keep regular season, write raw CSV
// ⭐ SSOT: 원천 데이터 수집은 여기서만
//
// 포지션 필터는 적용하지 않음: 출력에 QB 외 선수 행이 포함될 수 있음
type Acquirer struct {
	source SeasonSource
	store  WeeklyStore // nil = DB 적재 생략
	logger *logger.Logger
}

// AcquireReport summarizes one acquisition
type AcquireReport struct {
	Path        string
	Seasons     []int
	RowsFetched int
	RowsKept    int
	Persisted   int
	Duration    time.Duration
}

// NewAcquirer creates a new acquirer
func NewAcquirer(source SeasonSource, store WeeklyStore, log *logger.Logger) *Acquirer {
	return &Acquirer{
		source: source,
		store:  store,
		logger: log.WithField("module", "s0_data"),
	}
}

// Acquire downloads seasons and writes the regular-season rows to outPath
func (a *Acquirer) Acquire(ctx context.Context, seasons []int, outPath string) (*AcquireReport, error) {
	start := time.Now()
	if len(seasons) == 0 {
		return nil, fmt.Errorf("acquire: no seasons requested")
	}

	a.logger.WithFields(map[string]interface{}{
		"seasons": seasons,
		"output":  outPath,
	}).Info("Starting acquisition")

	var combined dataframe.DataFrame
	for i, season := range seasons {
		df, err := a.fetchSeason(ctx, season)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			combined = df
		} else {
			combined = combined.RBind(df)
		}
		if combined.Err != nil {
			return nil, fmt.Errorf("combine season %d: %w", season, combined.Err)
		}
	}

	fetched := combined.Nrow()
	regular := combined.Filter(dataframe.F{
		Colname:    contracts.ColSeasonType,
		Comparator: series.Eq,
		Comparando: contracts.SeasonTypeRegular,
	})
	if regular.Err != nil {
		return nil, fmt.Errorf("filter regular season: %w", regular.Err)
	}

	if err := WriteFrame(outPath, regular); err != nil {
		return nil, err
	}

	report := &AcquireReport{
		Path:        outPath,
		Seasons:     seasons,
		RowsFetched: fetched,
		RowsKept:    regular.Nrow(),
	}

	if a.store != nil {
		records, err := FrameRecords(regular)
		if err != nil {
			return nil, fmt.Errorf("persist: %w", err)
		}
		unique := DedupeRecords(records)
		if dropped := len(records) - len(unique); dropped > 0 {
			a.logger.WithField("duplicates", dropped).Warn("Duplicate player-weeks collapsed before persist")
		}
		n, err := a.store.UpsertWeekly(ctx, unique)
		if err != nil {
			return nil, fmt.Errorf("persist: %w", err)
		}
		report.Persisted = n
	}

	report.Duration = time.Since(start)
	a.logger.WithFields(map[string]interface{}{
		"fetched":   report.RowsFetched,
		"kept":      report.RowsKept,
		"persisted": report.Persisted,
		"duration":  report.Duration,
	}).Info("Acquisition completed")

	return report, nil
}

// fetchSeason downloads one season and keeps the record columns
func (a *Acquirer) fetchSeason(ctx context.Context, season int) (dataframe.DataFrame, error) {
	data, err := a.source.FetchSeasonCSV(ctx, season)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df, err := ParseFrame(data)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("season %d: %w", season, err)
	}

	selected := df.Select(contracts.RecordColumns())
	if selected.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("season %d: select columns: %w", season, selected.Err)
	}

	a.logger.WithFields(map[string]interface{}{
		"season": season,
		"rows":   selected.Nrow(),
	}).Debug("Season loaded")
	return selected, nil
}

// DedupeRecords keeps the last row per (player_id, season, week), in first-seen order
func DedupeRecords(records []contracts.WeeklyQBRecord) []contracts.WeeklyQBRecord {
	pos := make(map[contracts.RecordKey]int, len(records))
	out := make([]contracts.WeeklyQBRecord, 0, len(records))
	for _, rec := range records {
		if i, ok := pos[rec.Key()]; ok {
			out[i] = rec
			continue
		}
		pos[rec.Key()] = len(out)
		out = append(out, rec)
	}
	return out
}
