package brain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wonny/epaforecast/internal/contracts"
	"github.com/wonny/epaforecast/internal/metrics"
	"github.com/wonny/epaforecast/internal/s0_data"
	"github.com/wonny/epaforecast/internal/s1_clean"
	"github.com/wonny/epaforecast/internal/s2_quality"
	"github.com/wonny/epaforecast/internal/settings"
	"github.com/wonny/epaforecast/pkg/logger"
)

// ErrRunInProgress is returned when a second run starts before the first finishes
var ErrRunInProgress = errors.New("pipeline run already in progress")

// Stage components
type (
	Acquirer interface {
		Acquire(ctx context.Context, seasons []int, outPath string) (*s0_data.AcquireReport, error)
	}
	Cleaner interface {
		Clean(rawPath string) (string, *s1_clean.CleanReport, error)
	}
	Validator interface {
		Validate(path string) (*s2_quality.Report, error)
	}
	Trainer interface {
		Train(ctx context.Context, cleanedPath string) (*contracts.ModelArtifact, error)
	}
	EventPublisher interface {
		Publish(event contracts.StageEvent)
	}
)

// Orchestrator coordinates the 4-stage pipeline
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	cfg *settings.Config

	acquirer  Acquirer
	cleaner   Cleaner
	validator Validator
	trainer   Trainer
	events    EventPublisher // nil = 이벤트 발행 생략

	clock  clockwork.Clock
	logger *logger.Logger

	mu      sync.Mutex
	running bool
	last    *RunResult
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	RunID       string
	SkipAcquire bool   // true = 기존 raw CSV 재사용
	RawPath     string // 비어 있으면 settings 기준 경로
}

// RunResult holds the results of a complete pipeline run
type RunResult struct {
	RunID           string                     `json:"run_id"`
	Success         bool                       `json:"success"`
	Error           string                     `json:"error,omitempty"`
	CompletedStages []contracts.Stage          `json:"completed_stages"`
	Stages          []contracts.PipelineResult `json:"stages"`
	RawPath         string                     `json:"raw_path"`
	CleanedPath     string                     `json:"cleaned_path,omitempty"`
	Artifact        *contracts.ModelArtifact   `json:"artifact,omitempty"`
	StartedAt       time.Time                  `json:"started_at"`
	Duration        time.Duration              `json:"duration_ns"`

	Acquire  *s0_data.AcquireReport `json:"-"`
	Clean    *s1_clean.CleanReport  `json:"-"`
	Validate *s2_quality.Report     `json:"-"`
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	cfg *settings.Config,
	acquirer Acquirer,
	cleaner Cleaner,
	validator Validator,
	trainer Trainer,
	events EventPublisher,
	clock clockwork.Clock,
	log *logger.Logger,
) *Orchestrator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Orchestrator{
		cfg:       cfg,
		acquirer:  acquirer,
		cleaner:   cleaner,
		validator: validator,
		trainer:   trainer,
		events:    events,
		clock:     clock,
		logger:    log.WithField("module", "brain"),
	}
}

// Running reports whether a run is in progress
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// LastResult returns the most recent finished run, or nil
func (o *Orchestrator) LastResult() *RunResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Run executes S0 → S1 → S2 → S3 and stops at the first failing stage
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return nil, ErrRunInProgress
	}
	o.running = true
	o.mu.Unlock()
	metrics.PipelineRunning.Set(1)

	if config.RunID == "" {
		config.RunID = GenerateRunID(o.clock.Now())
	}
	rawPath := config.RawPath
	if rawPath == "" {
		rawPath = o.cfg.RawPath()
	}

	result := &RunResult{
		RunID:           config.RunID,
		RawPath:         rawPath,
		CompletedStages: make([]contracts.Stage, 0, 4),
		StartedAt:       o.clock.Now(),
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id":       config.RunID,
		"seasons":      o.cfg.Acquire.Seasons,
		"skip_acquire": config.SkipAcquire,
	}).Info("Starting pipeline run")

	err := o.runStages(ctx, config, result)

	result.Duration = o.clock.Since(result.StartedAt)
	result.Success = err == nil
	if err != nil {
		result.Error = err.Error()
	}

	o.mu.Lock()
	o.running = false
	o.last = result
	o.mu.Unlock()
	metrics.PipelineRunning.Set(0)

	if err != nil {
		o.logger.WithError(err).WithField("run_id", config.RunID).Error("Pipeline run failed")
		return result, err
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id":   config.RunID,
		"duration": result.Duration.Seconds(),
		"stages":   len(result.CompletedStages),
		"accuracy": result.Artifact.Accuracy,
	}).Info("Pipeline run completed successfully")

	return result, nil
}

func (o *Orchestrator) runStages(ctx context.Context, config RunConfig, result *RunResult) error {
	// S0: Acquire
	if config.SkipAcquire {
		o.logger.Info("Skipping S0:Acquire (reusing raw file)")
	} else {
		err := o.stage(ctx, result, contracts.StageAcquire, func() (string, int, error) {
			report, err := o.acquirer.Acquire(ctx, o.cfg.Acquire.Seasons, result.RawPath)
			if err != nil {
				return "", 0, err
			}
			result.Acquire = report
			return report.Path, report.RowsKept, nil
		})
		if err != nil {
			return err
		}
	}

	// S1: Clean
	err := o.stage(ctx, result, contracts.StageClean, func() (string, int, error) {
		out, report, err := o.cleaner.Clean(result.RawPath)
		if err != nil {
			return "", 0, err
		}
		result.Clean = report
		result.CleanedPath = out
		return out, report.RowsOut, nil
	})
	if err != nil {
		return err
	}

	// S2: Quality
	err = o.stage(ctx, result, contracts.StageQuality, func() (string, int, error) {
		report, err := o.validator.Validate(result.CleanedPath)
		result.Validate = report
		if err != nil {
			return "", 0, err
		}
		return result.CleanedPath, report.Rows, nil
	})
	if err != nil {
		return err
	}

	// S3: Model
	return o.stage(ctx, result, contracts.StageModel, func() (string, int, error) {
		artifact, err := o.trainer.Train(ctx, result.CleanedPath)
		if err != nil {
			return "", 0, err
		}
		result.Artifact = artifact
		metrics.ModelAccuracy.Set(artifact.Accuracy)
		return o.cfg.Model.Path, artifact.NTrain + artifact.NTest, nil
	})
}

// stage runs fn with events, metrics and bookkeeping around it
func (o *Orchestrator) stage(ctx context.Context, result *RunResult, stage contracts.Stage, fn func() (string, int, error)) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", stage.ShortName(), err)
	}

	o.logger.WithStage(stage.String()).Info(fmt.Sprintf("Running %s: %s", stage.ShortName(), stage.Description()))
	o.publish(contracts.StageEvent{RunID: result.RunID, Stage: stage, Status: contracts.StatusStarted})

	start := o.clock.Now()
	output, rows, err := fn()
	elapsed := o.clock.Since(start)

	metrics.StageDuration.WithLabelValues(stage.String()).Observe(elapsed.Seconds())

	pr := contracts.PipelineResult{
		Stage:       stage,
		Success:     err == nil,
		OutputCount: rows,
		Duration:    elapsed.Milliseconds(),
		Output:      output,
	}
	event := contracts.StageEvent{
		RunID:      result.RunID,
		Stage:      stage,
		Output:     output,
		DurationMs: elapsed.Milliseconds(),
	}

	if err != nil {
		metrics.StageRuns.WithLabelValues(stage.String(), metrics.ResultFailed).Inc()
		pr.Error = err.Error()
		result.Stages = append(result.Stages, pr)
		event.Status = contracts.StatusFailed
		event.Error = err.Error()
		o.publish(event)
		return fmt.Errorf("%s failed: %w", stage.ShortName(), err)
	}

	metrics.StageRuns.WithLabelValues(stage.String(), metrics.ResultOK).Inc()
	metrics.StageRows.WithLabelValues(stage.String()).Set(float64(rows))
	result.Stages = append(result.Stages, pr)
	result.CompletedStages = append(result.CompletedStages, stage)
	event.Status = contracts.StatusCompleted
	o.publish(event)

	o.logger.WithFields(map[string]interface{}{
		"stage":  stage.String(),
		"output": output,
		"rows":   rows,
	}).Info(stage.ShortName() + " completed")
	return nil
}

func (o *Orchestrator) publish(event contracts.StageEvent) {
	if o.events == nil {
		return
	}
	event.Timestamp = o.clock.Now().Unix()
	o.events.Publish(event)
}

// GenerateRunID generates a run ID from the given time
func GenerateRunID(now time.Time) string {
	return fmt.Sprintf("run_%s", now.Format("20060102_150405"))
}
