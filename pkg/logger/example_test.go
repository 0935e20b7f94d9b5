package logger_test

import (
	"errors"

	"github.com/wonny/epaforecast/pkg/config"
	"github.com/wonny/epaforecast/pkg/logger"
)

// Example_stage shows the per-stage fields every pipeline step logs with
func Example_stage() {
	log := logger.New(&config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	})

	stageLog := log.WithStage("S1_CLEAN")
	stageLog.WithFields(map[string]interface{}{
		"rows_in":  120,
		"rows_out": 84,
	}).Info("Cleaning completed")

	stageLog.WithError(errors.New("open data/raw_data/weekly_qb_stats_2023.csv: no such file")).
		Error("Cleaning failed")
}
