package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/epaforecast/internal/api"
	"github.com/wonny/epaforecast/internal/api/handlers"
	"github.com/wonny/epaforecast/internal/forecast"
	"github.com/wonny/epaforecast/internal/realtime"
	"github.com/wonny/epaforecast/internal/scheduler"
	"github.com/wonny/epaforecast/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health               - Health check
  GET  /metrics              - Prometheus metrics
  GET  /api/model            - 저장된 모델 조회
  GET  /api/model/runs       - 학습 이력 (DB 설정 시)
  POST /api/predict          - 점수 계산
  POST /api/pipeline/run     - 파이프라인 실행
  GET  /api/pipeline/status  - 실행 상태
  GET  /ws/pipeline          - 단계 이벤트 스트림 (websocket)

Example:
  go run ./cmd/epa api
  go run ./cmd/epa api --port 8080 --with-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort          string
	apiWithScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
	apiCmd.Flags().BoolVar(&apiWithScheduler, "with-scheduler", false, "settings의 스케줄로 파이프라인 작업도 실행")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	hub := realtime.NewHub(a.log)
	defer hub.Close()

	orch := a.orchestrator(hub)

	var runs handlers.RunLister
	if a.db != nil {
		runs = forecast.NewRepository(a.db.Pool)
	}

	router := api.NewRouter(api.Routes{
		Model:    handlers.NewModelHandler(a.settings.Model.Path, runs, a.log),
		Pipeline: handlers.NewPipelineHandler(orch, a.log),
		Events:   hub.ServeWS,
		Metrics:  a.cfg.MetricsEnabled,
	}, a.log)

	if apiWithScheduler {
		sched := scheduler.New(a.log)
		if err := sched.AddJob(jobs.NewPipelineJob(orch, a.settings.Schedule.Cron, a.log)); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	server := api.New(a.cfg, a.log, router)

	PrintSuccess(fmt.Sprintf("Server running on http://localhost:%s", a.cfg.Port))
	PrintInfo("Press Ctrl+C to stop")

	return server.Serve(ctx)
}
