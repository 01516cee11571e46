package main

import (
	"os"

	"github.com/lemconn/exkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
