// Package main is the entry point for the winebuddy CLI binary.
package main

import (
	"os"

	cli "winebuddy/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
