package main

import (
	"os"

	"github.com/lukasmc/cefnav/cmd/cefnav/commands"
)

// main is the entry point for the cefnav CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
