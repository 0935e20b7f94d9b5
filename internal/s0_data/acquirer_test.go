package s0_data

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/epaforecast/internal/contracts"
	"github.com/wonny/epaforecast/pkg/logger"
)

const providerHeader = "player_id,player_name,position,season,week,season_type,passing_epa,completions,attempts,passing_yards,passing_tds,interceptions\n"

func seasonCSV(season int) []byte {
	return []byte(providerHeader +
		fmt.Sprintf("00-1,A. Passer,QB,%d,1,REG,1.5,20,30,250,2,1\n", season) +
		fmt.Sprintf("00-1,A. Passer,QB,%d,19,POST,0.5,18,28,200,1,0\n", season) +
		fmt.Sprintf("00-2,B. Catcher,WR,%d,1,REG,,0,0,0,0,0\n", season))
}

type fakeSource struct {
	err   error
	calls []int
}

func (f *fakeSource) FetchSeasonCSV(ctx context.Context, season int) ([]byte, error) {
	f.calls = append(f.calls, season)
	if f.err != nil {
		return nil, f.err
	}
	return seasonCSV(season), nil
}

type fakeStore struct {
	records []contracts.WeeklyQBRecord
}

func (f *fakeStore) UpsertWeekly(ctx context.Context, records []contracts.WeeklyQBRecord) (int, error) {
	f.records = append(f.records, records...)
	return len(records), nil
}

func TestAcquire_SelectsColumnsAndRegularSeason(t *testing.T) {
	out := filepath.Join(t.TempDir(), "raw", "weekly_qb_stats_2023.csv")
	source := &fakeSource{}

	report, err := NewAcquirer(source, nil, logger.Nop()).Acquire(context.Background(), []int{2023}, out)
	require.NoError(t, err)

	assert.Equal(t, 3, report.RowsFetched)
	assert.Equal(t, 2, report.RowsKept)
	assert.Equal(t, 0, report.Persisted)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(contracts.RecordColumns(), ","), lines[0])

	df, err := ReadFrame(out)
	require.NoError(t, err)
	for _, st := range df.Col(contracts.ColSeasonType).Records() {
		assert.Equal(t, "REG", st)
	}
}

func TestAcquire_MultipleSeasonsPersist(t *testing.T) {
	out := filepath.Join(t.TempDir(), "weekly_qb_stats_2022_2023.csv")
	source := &fakeSource{}
	store := &fakeStore{}

	report, err := NewAcquirer(source, store, logger.Nop()).Acquire(context.Background(), []int{2022, 2023}, out)
	require.NoError(t, err)

	assert.Equal(t, []int{2022, 2023}, source.calls)
	assert.Equal(t, 6, report.RowsFetched)
	assert.Equal(t, 4, report.RowsKept)
	assert.Equal(t, 4, report.Persisted)
	require.Len(t, store.records, 4)

	assert.Equal(t, 2022, store.records[0].Season)
	assert.Equal(t, 2023, store.records[3].Season)
	assert.True(t, math.IsNaN(store.records[1].PassingEPA), "missing epa stays NaN before cleaning")
}

func TestAcquire_DuplicatePlayerWeeksCollapsedBeforePersist(t *testing.T) {
	out := filepath.Join(t.TempDir(), "weekly_qb_stats_2023_2023.csv")
	store := &fakeStore{}

	report, err := NewAcquirer(&fakeSource{}, store, logger.Nop()).Acquire(context.Background(), []int{2023, 2023}, out)
	require.NoError(t, err)

	assert.Equal(t, 4, report.RowsKept, "raw file keeps duplicates for validation to catch")
	assert.Equal(t, 2, report.Persisted)
	require.Len(t, store.records, 2)
	assert.Equal(t, "00-1", store.records[0].PlayerID)
	assert.Equal(t, "00-2", store.records[1].PlayerID)
}

func TestDedupeRecords_KeepsLastInFirstSeenOrder(t *testing.T) {
	in := []contracts.WeeklyQBRecord{
		{PlayerID: "00-1", Season: 2023, Week: 1, Attempts: 10},
		{PlayerID: "00-2", Season: 2023, Week: 1, Attempts: 20},
		{PlayerID: "00-1", Season: 2023, Week: 1, Attempts: 30},
		{PlayerID: "00-1", Season: 2023, Week: 2, Attempts: 40},
	}

	got := DedupeRecords(in)
	require.Len(t, got, 3)
	assert.Equal(t, 30.0, got[0].Attempts)
	assert.Equal(t, "00-2", got[1].PlayerID)
	assert.Equal(t, 2, got[2].Week)
	assert.Empty(t, DedupeRecords(nil))
}

func TestAcquire_FetchFailurePropagates(t *testing.T) {
	boom := errors.New("provider down")
	out := filepath.Join(t.TempDir(), "raw.csv")

	_, err := NewAcquirer(&fakeSource{err: boom}, nil, logger.Nop()).Acquire(context.Background(), []int{2023}, out)
	assert.ErrorIs(t, err, boom)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output on failure")
}

func TestAcquire_NoSeasons(t *testing.T) {
	_, err := NewAcquirer(&fakeSource{}, nil, logger.Nop()).Acquire(context.Background(), nil, "x.csv")
	assert.Error(t, err)
}

func TestReadFrame_MissingFile(t *testing.T) {
	_, err := ReadFrame(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestFrameRecords_MissingColumn(t *testing.T) {
	df, err := ParseFrame([]byte("player_id,season\n00-1,2023\n"))
	require.NoError(t, err)

	_, err = FrameRecords(df)
	assert.Error(t, err)
}
