package brain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/epaforecast/internal/contracts"
	"github.com/wonny/epaforecast/internal/forecast"
	"github.com/wonny/epaforecast/internal/s0_data"
	"github.com/wonny/epaforecast/internal/s1_clean"
	"github.com/wonny/epaforecast/internal/s2_quality"
	"github.com/wonny/epaforecast/internal/settings"
	"github.com/wonny/epaforecast/pkg/logger"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeAcquirer struct {
	calls int
	err   error
	block chan struct{}
}

func (f *fakeAcquirer) Acquire(ctx context.Context, seasons []int, outPath string) (*s0_data.AcquireReport, error) {
	f.calls++
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s0_data.AcquireReport{Path: outPath, Seasons: seasons, RowsKept: 10}, nil
}

type fakeCleaner struct{ calls int }

func (f *fakeCleaner) Clean(rawPath string) (string, *s1_clean.CleanReport, error) {
	f.calls++
	return rawPath + ".cleaned", &s1_clean.CleanReport{Input: rawPath, RowsOut: 8}, nil
}

type fakeValidator struct{ err error }

func (f *fakeValidator) Validate(path string) (*s2_quality.Report, error) {
	return &s2_quality.Report{Path: path, Rows: 8}, f.err
}

type fakeTrainer struct{ calls int }

func (f *fakeTrainer) Train(ctx context.Context, path string) (*contracts.ModelArtifact, error) {
	f.calls++
	return &contracts.ModelArtifact{Accuracy: 0.75, NTrain: 6, NTest: 2}, nil
}

type recorder struct {
	mu     sync.Mutex
	events []contracts.StageEvent
}

func (r *recorder) Publish(e contracts.StageEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

type fixture struct {
	acq   *fakeAcquirer
	clean *fakeCleaner
	valid *fakeValidator
	train *fakeTrainer
	rec   *recorder
	orch  *Orchestrator
}

func newFixture() *fixture {
	f := &fixture{
		acq:   &fakeAcquirer{},
		clean: &fakeCleaner{},
		valid: &fakeValidator{},
		train: &fakeTrainer{},
		rec:   &recorder{},
	}
	clock := clockwork.NewFakeClockAt(time.Date(2023, 11, 7, 6, 0, 0, 0, time.UTC))
	f.orch = NewOrchestrator(settings.Default(), f.acq, f.clean, f.valid, f.train, f.rec, clock, logger.Nop())
	return f
}

// =============================================================================
// Tests
// =============================================================================

func TestRun_AllStages(t *testing.T) {
	f := newFixture()

	result, err := f.orch.Run(context.Background(), RunConfig{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "run_20231107_060000", result.RunID)
	assert.Equal(t, contracts.AllStages(), result.CompletedStages)
	assert.Equal(t, "data/raw_data/weekly_qb_stats_2023.csv", result.RawPath)
	assert.Equal(t, result.RawPath+".cleaned", result.CleanedPath)
	assert.Equal(t, 0.75, result.Artifact.Accuracy)
	assert.Len(t, result.Stages, 4)

	// started + completed per stage
	require.Len(t, f.rec.events, 8)
	assert.Equal(t, contracts.StatusStarted, f.rec.events[0].Status)
	assert.Equal(t, contracts.StageModel, f.rec.events[7].Stage)
	assert.Equal(t, contracts.StatusCompleted, f.rec.events[7].Status)

	assert.Same(t, result, f.orch.LastResult())
	assert.False(t, f.orch.Running())
}

func TestRun_SkipAcquire(t *testing.T) {
	f := newFixture()

	result, err := f.orch.Run(context.Background(), RunConfig{SkipAcquire: true, RawPath: "x.csv"})
	require.NoError(t, err)

	assert.Equal(t, 0, f.acq.calls)
	assert.Equal(t, []contracts.Stage{contracts.StageClean, contracts.StageQuality, contracts.StageModel}, result.CompletedStages)
	assert.Equal(t, "x.csv.cleaned", result.CleanedPath)
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	f := newFixture()
	f.valid.err = &s2_quality.ValidationError{Check: s2_quality.CheckNoDuplicates, Message: "Duplicate rows found."}

	result, err := f.orch.Run(context.Background(), RunConfig{RunID: "r1"})
	require.Error(t, err)

	var verr *s2_quality.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.False(t, result.Success)
	assert.Equal(t, []contracts.Stage{contracts.StageAcquire, contracts.StageClean}, result.CompletedStages)
	assert.Equal(t, 0, f.train.calls)

	last := f.rec.events[len(f.rec.events)-1]
	assert.Equal(t, contracts.StageQuality, last.Stage)
	assert.Equal(t, contracts.StatusFailed, last.Status)
	assert.Equal(t, "Duplicate rows found.", last.Error)
}

func TestRun_AcquireFailure(t *testing.T) {
	f := newFixture()
	f.acq.err = errors.New("404")

	result, err := f.orch.Run(context.Background(), RunConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S0 failed")
	assert.Empty(t, result.CompletedStages)
	assert.Equal(t, 0, f.clean.calls)
}

func TestRun_CancelledContext(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.orch.Run(ctx, RunConfig{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.acq.calls)
}

func TestRun_RejectsConcurrentRun(t *testing.T) {
	f := newFixture()
	f.acq.block = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.orch.Run(context.Background(), RunConfig{})
		done <- err
	}()

	require.Eventually(t, f.orch.Running, 2*time.Second, 5*time.Millisecond)
	_, err := f.orch.Run(context.Background(), RunConfig{})
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(f.acq.block)
	require.NoError(t, <-done)
}

// =============================================================================
// Real stages over files
// =============================================================================

func TestRun_FileStagesEndToEnd(t *testing.T) {
	root := t.TempDir()
	cfg := settings.Default()
	cfg.Acquire.RawDir = filepath.ToSlash(filepath.Join(root, "raw"))
	cfg.Clean.AnalysisDir = filepath.ToSlash(filepath.Join(root, "analysis"))
	cfg.Model.Path = filepath.Join(root, "models", "model.json")

	var b strings.Builder
	b.WriteString(strings.Join(contracts.RecordColumns(), ",") + "\n")
	for i := 0; i < 40; i++ {
		tds := i % 4
		ints := (i / 4) % 2
		epa := float64(tds) - 1.5*float64(ints)
		fmt.Fprintf(&b, "00-%d,2023,%d,REG,%f,%d,%d,%d,%d,%d\n", i, i%12+1, epa, 15+i%10, 25+i%12, 150+i%7*20, tds, ints)
	}
	require.NoError(t, os.MkdirAll(cfg.Acquire.RawDir, 0o755))
	require.NoError(t, os.WriteFile(cfg.RawPath(), []byte(b.String()), 0o644))

	log := logger.Nop()
	clock := clockwork.NewFakeClock()
	orch := NewOrchestrator(cfg,
		nil,
		s1_clean.NewCleaner(cfg, log),
		s2_quality.NewValidator(cfg.Clean.WeekCutoff, log),
		forecast.NewTrainer(cfg, clock, nil, zerolog.Nop()),
		nil, clock, log)

	result, err := orch.Run(context.Background(), RunConfig{SkipAcquire: true})
	require.NoError(t, err)

	// week = i%12+1: 9 rows at weeks 10..12 dropped → 31 remain
	assert.Equal(t, 9, result.Clean.DroppedWeek)
	assert.Equal(t, 31, result.Clean.RowsOut)
	assert.Equal(t, 31, result.Artifact.NTrain+result.Artifact.NTest)
	assert.Equal(t, 7, result.Artifact.NTest)
	assert.FileExists(t, cfg.Model.Path)
	assert.FileExists(t, result.CleanedPath)
}
