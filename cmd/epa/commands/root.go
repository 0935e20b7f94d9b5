package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	settingsFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "epa",
	Short: "Passing EPA forecasting pipeline",
	Long: `epaforecast Unified CLI

주간 QB 스탯 → 정제 → 검증 → 로지스틱 회귀.
4단계 파이프라인 (S0 Acquire, S1 Clean, S2 Quality, S3 Model).

Usage:
  go run ./cmd/epa [command]

Examples:
  go run ./cmd/epa run
  go run ./cmd/epa download --season 2022 --season 2023
  go run ./cmd/epa clean
  go run ./cmd/epa validate
  go run ./cmd/epa model
  go run ./cmd/epa api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Ctrl+C / SIGTERM → 커맨드 컨텍스트 취소
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "pipeline settings YAML (default: PIPELINE_SETTINGS or built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
