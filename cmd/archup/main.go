package main

import (
	"os"

	"github.com/archup/archup/cmd/archup/commands"
)

func main() {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
