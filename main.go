package main

import (
	"os"

	"github.com/leftmike/colcalc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
