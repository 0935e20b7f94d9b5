package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cleanCmd represents the clean command (S1)
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "S1: 시즌 중반 스냅샷 정제",
	Long: `raw CSV를 정제해 analysis 디렉토리에 저장합니다.

이 명령어는:
- season_type == REG, week <= cutoff 행만 유지
- season, week 정수 캐스팅
- passing_epa 결측치 0 채움

Example:
  go run ./cmd/epa clean
  go run ./cmd/epa clean --input data/raw_data/weekly_qb_stats_2023.csv`,
	RunE: runClean,
}

var cleanInput string

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringVar(&cleanInput, "input", "", "raw CSV path (default: settings)")
}

func runClean(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	input := cleanInput
	if input == "" {
		input = a.settings.RawPath()
	}

	out, report, err := a.cleaner().Clean(input)
	if err != nil {
		return fmt.Errorf("S1 clean: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Cleaned data saved to: %s", out))
	PrintInfo(fmt.Sprintf("rows in=%d out=%d (dropped: season_type=%d, week=%d; passing_epa filled=%d)",
		report.RowsIn, report.RowsOut, report.DroppedSeasonType, report.DroppedWeek, report.EPAFilled))
	return nil
}
