package main

import (
	"os"

	"varcvar-api/cmd/varform/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
