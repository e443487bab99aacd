package main

import (
	"os"

	"github.com/willowtrade/willow/cmd/willow/commands"
)

// main is the entry point for the willow CLI: go run ./cmd/willow [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
