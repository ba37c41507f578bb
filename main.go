package main

import (
	"os"

	"github.com/cwaring/ucan-inspector/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
