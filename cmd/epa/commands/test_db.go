package commands

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/epaforecast/internal/s0_data"
	"github.com/wonny/epaforecast/internal/settings"
	"github.com/wonny/epaforecast/pkg/config"
	"github.com/wonny/epaforecast/pkg/database"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "PostgreSQL 연결 테스트",
	Long: `데이터베이스 연결을 테스트하고 풀 통계를 표시합니다.

이 명령어는:
- config에서 DATABASE_URL 로드
- 데이터베이스 연결 생성 및 스키마 확인
- Health Check 실행
- Connection Pool 통계 표시
- 설정 시즌별 적재 행 수 표시

Example:
  go run ./cmd/epa test-db`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	PrintHeader("Database Connection Test")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	PrintInfo(fmt.Sprintf("Database URL: %s", maskPassword(cfg.Database.URL)))

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	PrintSuccess("Database connection established")

	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	PrintSuccess("Schema ready (data.weekly_qb_stats, forecast.model_runs)")

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	fmt.Fprintf(stdout, "  Healthy       : %v\n", status.Healthy)
	fmt.Fprintf(stdout, "  Response Time : %v\n", status.ResponseTime)
	fmt.Fprintf(stdout, "  Max Conns     : %d\n", cfg.Database.MaxConns)
	fmt.Fprintf(stdout, "  Total Conns   : %d\n", status.TotalConns)
	fmt.Fprintf(stdout, "  Acquired      : %d\n", status.AcquiredConns)
	fmt.Fprintf(stdout, "  Idle Conns    : %d\n", status.IdleConns)

	path := settingsFile
	if path == "" {
		path = cfg.SettingsPath
	}
	st, err := settings.LoadOrDefault(path)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	repo := s0_data.NewRepository(db.Pool)
	PrintSeparator()
	for _, season := range st.Acquire.Seasons {
		n, err := repo.CountBySeason(ctx, season)
		if err != nil {
			return fmt.Errorf("count season %d: %w", season, err)
		}
		fmt.Fprintf(stdout, "  Season %d   : %d rows\n", season, n)
	}
	return nil
}

// maskPassword hides the password component of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
