package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/epaforecast/internal/brain"
	"github.com/wonny/epaforecast/pkg/logger"
)

// PipelineRunner runs the full pipeline
type PipelineRunner interface {
	Run(ctx context.Context, config brain.RunConfig) (*brain.RunResult, error)
}

// PipelineJob refreshes data and retrains the model on a schedule
// ⭐ SSOT: 정기 파이프라인 실행은 이 Job에서만
type PipelineJob struct {
	runner   PipelineRunner
	schedule string
	logger   *logger.Logger
}

// NewPipelineJob creates a new pipeline job
func NewPipelineJob(runner PipelineRunner, schedule string, log *logger.Logger) *PipelineJob {
	return &PipelineJob{
		runner:   runner,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *PipelineJob) Name() string {
	return "epa_pipeline"
}

// Schedule returns the cron schedule from settings (default: Tuesday 06:00, after Monday night games)
func (j *PipelineJob) Schedule() string {
	return j.schedule
}

// Run executes S0 → S3
func (j *PipelineJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled pipeline run")

	result, err := j.runner.Run(ctx, brain.RunConfig{})
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":   result.RunID,
		"accuracy": result.Artifact.Accuracy,
		"duration": result.Duration.Seconds(),
	}).Info("Scheduled pipeline run completed")

	return nil
}
