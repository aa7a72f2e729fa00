// Package main - company enrichment API server and ops CLI
//
// Usage:
//
//	go run ./cmd/api            # serve (default)
//	go run ./cmd/api enrich AAPL_US "Apple Inc." --market US
//	go run ./cmd/api migrate
package main

import (
	"os"

	"github.com/labdan/Dashboard-sub000/cmd/api/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
