package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/epaforecast/internal/contracts"
	"github.com/wonny/epaforecast/internal/forecast"
)

// predictCmd scores one stat line with the saved model
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "저장된 모델로 한 경기 스탯 점수 계산",
	Long: `학습된 모델로 passing_epa가 중앙값을 넘을 확률을 계산합니다.

Example:
  go run ./cmd/epa predict --completions 22 --attempts 31 --yards 274 --tds 2 --ints 0`,
	RunE: runPredict,
}

var predictStats contracts.WeeklyQBRecord

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().Float64Var(&predictStats.Completions, "completions", 0, "completions")
	predictCmd.Flags().Float64Var(&predictStats.Attempts, "attempts", 0, "attempts")
	predictCmd.Flags().Float64Var(&predictStats.PassingYards, "yards", 0, "passing yards")
	predictCmd.Flags().Float64Var(&predictStats.PassingTDs, "tds", 0, "passing touchdowns")
	predictCmd.Flags().Float64Var(&predictStats.Interceptions, "ints", 0, "interceptions")
}

func runPredict(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	artifact, err := forecast.LoadArtifact(a.settings.Model.Path)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	pred, err := forecast.NewPredictor(artifact, a.log.Zerolog()).PredictRecord(predictStats)
	if err != nil {
		return err
	}

	side := "below"
	if pred.Label == 1 {
		side = "above"
	}
	fmt.Fprintf(stdout, "P(passing_epa > %.4f) = %.4f → %s median\n", artifact.Threshold, pred.Probability, side)
	return nil
}
