package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/epaforecast/internal/brain"
)

// runCmd represents the run command (S0 → S3)
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "전체 파이프라인 실행 (S0 → S3)",
	Long: `다운로드, 정제, 검증, 학습을 순서대로 실행합니다.
어느 단계든 실패하면 즉시 중단합니다.

Example:
  go run ./cmd/epa run
  go run ./cmd/epa run --skip-download`,
	RunE: runPipeline,
}

var (
	runSkipDownload bool
	runRawPath      string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runSkipDownload, "skip-download", false, "reuse the existing raw CSV")
	runCmd.Flags().StringVar(&runRawPath, "raw", "", "raw CSV path (default: settings)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.orchestrator(nil).Run(ctx, brain.RunConfig{
		SkipAcquire: runSkipDownload,
		RawPath:     runRawPath,
	})
	if result == nil {
		return err
	}

	PrintHeader(fmt.Sprintf("Pipeline run %s", result.RunID))
	PrintStages(result)

	if err != nil {
		PrintError(err.Error())
		return err
	}

	fmt.Fprintf(stdout, "Model Accuracy: %v\n", result.Artifact.Accuracy)
	PrintSuccess(fmt.Sprintf("Pipeline completed in %s", result.Duration))
	return nil
}
