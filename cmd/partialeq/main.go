// Package main is the entry point for the partialeq CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/partialeq/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
