package main

import (
	"os"

	"slinger/cmd/slinger/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
