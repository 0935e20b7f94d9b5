package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/epaforecast/pkg/logger"
)

// SeasonLister lists the seasons the provider publishes
type SeasonLister interface {
	ListSeasons(ctx context.Context) ([]int, error)
}

// SeasonCheckJob fails when a configured season is not published yet
type SeasonCheckJob struct {
	lister   SeasonLister
	seasons  []int
	schedule string
	logger   *logger.Logger
}

// NewSeasonCheckJob creates a new season availability job
func NewSeasonCheckJob(lister SeasonLister, seasons []int, schedule string, log *logger.Logger) *SeasonCheckJob {
	return &SeasonCheckJob{
		lister:   lister,
		seasons:  seasons,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *SeasonCheckJob) Name() string {
	return "season_check"
}

// Schedule returns the cron schedule
func (j *SeasonCheckJob) Schedule() string {
	return j.schedule
}

// Run checks that every configured season has a published file
func (j *SeasonCheckJob) Run(ctx context.Context) error {
	available, err := j.lister.ListSeasons(ctx)
	if err != nil {
		return fmt.Errorf("list seasons: %w", err)
	}

	published := make(map[int]bool, len(available))
	for _, s := range available {
		published[s] = true
	}

	var missing []int
	for _, s := range j.seasons {
		if !published[s] {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("seasons not published: %v", missing)
	}

	j.logger.WithFields(map[string]interface{}{
		"configured": j.seasons,
		"available":  len(available),
	}).Info("Configured seasons are published")
	return nil
}
