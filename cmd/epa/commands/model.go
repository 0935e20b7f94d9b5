package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// modelCmd represents the model command (S3)
var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "S3: 로지스틱 회귀 학습",
	Long: `정제 CSV로 passing_epa 중앙값 상/하 분류 모델을 학습하고 저장합니다.

이 명령어는:
- median(passing_epa) 기준 이진 라벨 생성
- seed 고정 80/20 분할
- L2 로지스틱 회귀 (최대 반복 max_iterations)
- 테스트 정확도 출력, 모델 JSON 저장

Example:
  go run ./cmd/epa model
  go run ./cmd/epa model -v`,
	RunE: runModel,
}

var modelInput string

func init() {
	rootCmd.AddCommand(modelCmd)

	modelCmd.Flags().StringVar(&modelInput, "input", "", "cleaned CSV path (default: settings)")
}

func runModel(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	input := modelInput
	if input == "" {
		input = a.settings.CleanedPath(a.settings.RawPath())
	}

	artifact, err := a.trainer().Train(ctx, input)
	if err != nil {
		return fmt.Errorf("S3 model: %w", err)
	}

	fmt.Fprintf(stdout, "Model Accuracy: %v\n", artifact.Accuracy)
	if verbose {
		PrintModel(artifact)
	}
	PrintSuccess(fmt.Sprintf("Model saved as %s", a.settings.Model.Path))
	return nil
}
