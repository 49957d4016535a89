package main

import (
	"os"

	"github.com/geospy/geospy-api/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
