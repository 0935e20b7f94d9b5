package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command (S2)
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "S2: 정제 데이터 검증",
	Long: `정제 CSV에 9개 검사를 순서대로 실행하고 첫 실패에서 중단합니다.

Example:
  go run ./cmd/epa validate
  go run ./cmd/epa validate --input data/analysis_data/cleaned_weekly_qb_stats_2023.csv`,
	RunE: runValidate,
}

var validateInput string

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateInput, "input", "", "cleaned CSV path (default: settings)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	input := validateInput
	if input == "" {
		input = a.settings.CleanedPath(a.settings.RawPath())
	}

	report, err := a.validator().Validate(input)
	if verbose {
		PrintChecks(report)
	}
	if err != nil {
		PrintError(err.Error())
		return fmt.Errorf("S2 validate: %w", err)
	}

	PrintSuccess("Data passed all tests.")
	return nil
}
