package main

import (
	"os"

	"github.com/msto63/parmacl/cmd/parmacl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
