package main

import (
	"os"

	"github.com/locvowork/headergrid/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
