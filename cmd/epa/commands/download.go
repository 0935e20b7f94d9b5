package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// downloadCmd represents the download command (S0)
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "S0: 주간 스탯 다운로드",
	Long: `nflverse에서 시즌별 주간 선수 스탯을 내려받아 raw CSV로 저장합니다.

이 명령어는:
- 시즌별 CSV 다운로드 (Redis 활성 시 캐시)
- 10개 컬럼 선택
- 정규시즌(REG) 행만 유지
- DATABASE_URL 설정 시 data.weekly_qb_stats 적재

Example:
  go run ./cmd/epa download
  go run ./cmd/epa download --season 2022 --season 2023`,
	RunE: runDownload,
}

var downloadSeasons []int

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().IntSliceVar(&downloadSeasons, "season", nil, "season year (repeatable, default: settings)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if len(downloadSeasons) > 0 {
		a.settings.Acquire.Seasons = downloadSeasons
	}

	report, err := a.acquirer().Acquire(ctx, a.settings.Acquire.Seasons, a.settings.RawPath())
	if err != nil {
		return fmt.Errorf("S0 acquire: %w", err)
	}

	years := make([]string, len(report.Seasons))
	for i, s := range report.Seasons {
		years[i] = fmt.Sprint(s)
	}
	PrintSuccess(fmt.Sprintf("Weekly quarterback stats for %s downloaded and saved to %s.", strings.Join(years, ", "), report.Path))
	PrintInfo(fmt.Sprintf("rows fetched=%d kept=%d persisted=%d", report.RowsFetched, report.RowsKept, report.Persisted))
	return nil
}
