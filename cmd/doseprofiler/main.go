package main

import (
	"os"

	"doseprofiler/cmd/doseprofiler/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
