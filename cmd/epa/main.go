package main

import (
	"os"

	"github.com/wonny/epaforecast/cmd/epa/commands"
)

// main is the entry point for the epaforecast CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/epa [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
