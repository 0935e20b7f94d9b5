package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/epaforecast/internal/contracts"
	"github.com/wonny/epaforecast/pkg/config"
	"github.com/wonny/epaforecast/pkg/logger"
)

// testLoggerCmd prints sample log lines in both formats
var testLoggerCmd = &cobra.Command{
	Use:   "test-logger",
	Short: "로거 출력 포맷 확인",
	Long: `JSON/console 포맷으로 샘플 로그를 출력합니다.

Example:
  go run ./cmd/epa test-logger`,
	RunE: runTestLogger,
}

func init() {
	rootCmd.AddCommand(testLoggerCmd)
}

func runTestLogger(cmd *cobra.Command, args []string) error {
	formats := []struct {
		title string
		cfg   *config.Config
	}{
		{"1. JSON Format (Production)", &config.Config{Env: "production", LogLevel: "info", LogFormat: "json"}},
		{"2. Console Format (Development)", &config.Config{Env: "development", LogLevel: "debug", LogFormat: "console"}},
	}

	for _, f := range formats {
		fmt.Fprintln(stdout, f.title)
		PrintSeparator()

		log := logger.NewWithWriter(f.cfg, stdout)
		fmt.Fprintf(stdout, "level: %s\n", log.Level())
		log.Debug("Debugging application flow")
		log.Info("Service started")

		// Stage-tagged fields
		log.WithStage(contracts.StageClean.String()).WithFields(map[string]interface{}{
			"rows_in":  312,
			"rows_out": 181,
		}).Info("S1 completed")

		// Error with context
		log.WithError(errors.New("unexpected status code 404")).
			WithField("season", 2023).
			Error("Failed to fetch season")

		fmt.Fprintln(stdout)
	}

	PrintSuccess("All logger tests completed!")
	return nil
}
