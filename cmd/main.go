package main

import (
	"os"

	"github.com/kakehashi-inc/app-backup-restore/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
