package main

import (
	"os"

	"github.com/brightwealth/summit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
