package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/epaforecast/internal/scheduler"
	"github.com/wonny/epaforecast/internal/scheduler/jobs"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "주간 재학습 스케줄러",
	Long: `시즌 중 EPA 파이프라인을 주기적으로 재실행하는 cron 스케줄러.

Subcommands:
  start   - cron 루프 실행 (Ctrl+C 종료)
  list    - 작업별 스케줄, 다음 실행 시각, 성공률
  run     - 작업 하나를 지금 실행하고 결과 출력

Example:
  go run ./cmd/epa scheduler start
  go run ./cmd/epa scheduler list
  go run ./cmd/epa scheduler run epa_pipeline`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "cron 루프 실행",
		Long: `파이프라인/시즌 확인 작업을 등록하고 cron 루프를 실행합니다.

등록되는 작업:
- epa_pipeline: settings schedule.cron (기본: 화요일 06:00, 시즌 중 주간 재학습)
- season_check: 매일 05:00 (설정 시즌 공개 여부 확인)

실행 중인 작업은 종료 시 context 취소를 받습니다.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "작업별 스케줄과 실행 통계",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "작업 즉시 실행 (동기)",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

var (
	schedulerRetries    int
	schedulerRetryDelay time.Duration
)

const seasonCheckSchedule = "0 0 5 * * *"

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerCmd.PersistentFlags().IntVar(&schedulerRetries, "retries", 0, "failed job retries (0 = fail immediately)")
	schedulerCmd.PersistentFlags().DurationVar(&schedulerRetryDelay, "retry-delay", time.Minute, "wait between retries")
}

// initScheduler wires the jobs onto a new scheduler
func initScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log, scheduler.WithRetries(schedulerRetries, schedulerRetryDelay))

	if err := sched.AddJob(jobs.NewPipelineJob(a.orchestrator(nil), a.settings.Schedule.Cron, a.log)); err != nil {
		return nil, err
	}
	if err := sched.AddJob(jobs.NewSeasonCheckJob(a.provider(), a.settings.Acquire.Seasons, seasonCheckSchedule, a.log)); err != nil {
		return nil, err
	}
	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if !a.settings.Schedule.Enabled {
		PrintInfo("schedule.enabled is false in settings; starting anyway")
	}

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()
	PrintSuccess("Scheduler started successfully")
	printJobs(sched)
	PrintInfo("Press Ctrl+C to stop")

	<-ctx.Done()

	sched.Stop()
	PrintSuccess("Scheduler stopped")
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	// 다음 실행 시각 계산을 위해 잠깐 시작
	sched.Start()
	defer sched.Stop()
	printJobs(sched)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	PrintInfo(fmt.Sprintf("Running job: %s", jobName))
	result, err := sched.RunJob(jobName)
	if err != nil {
		return err
	}
	if !result.Success {
		PrintError(result.Error)
		return fmt.Errorf("job %s failed", jobName)
	}

	PrintSuccess(fmt.Sprintf("Job %s completed in %s (%d attempt(s))", jobName, result.Duration, result.Attempts))
	return nil
}

func printJobs(sched *scheduler.Scheduler) {
	names := sched.GetAllJobs()
	next := make(map[string]time.Time, len(names))
	for _, name := range names {
		if t, err := sched.NextRun(name); err == nil {
			next[name] = t
		}
	}
	PrintJobStats(names, sched.GetJobStats(), next)
}
