// Package main is the entry point for the woograb CLI.
package main

import (
	"os"

	"github.com/woograb/woograb/cmd/woograb/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
