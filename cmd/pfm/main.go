// Package main is the entry point for the pfm CLI tool.
package main

import (
	"os"

	"github.com/prefabmig/prefabmig/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
