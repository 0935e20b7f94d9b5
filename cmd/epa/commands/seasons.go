package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// seasonsCmd lists the seasons the provider publishes
var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "다운로드 가능한 시즌 목록",
	Long: `nflverse 릴리스 페이지에서 다운로드 가능한 시즌을 조회합니다.

Example:
  go run ./cmd/epa seasons`,
	RunE: runSeasons,
}

func init() {
	rootCmd.AddCommand(seasonsCmd)
}

func runSeasons(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	seasons, err := a.provider().ListSeasons(ctx)
	if err != nil {
		return fmt.Errorf("list seasons: %w", err)
	}

	PrintSeasons(seasons, a.settings.Acquire.Seasons)
	PrintInfo(fmt.Sprintf("%d seasons available", len(seasons)))
	return nil
}
