package main

import (
	"os"

	"github.com/monarkh/site/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
