package main

import (
	"os"

	"palantir/cmd/report/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
