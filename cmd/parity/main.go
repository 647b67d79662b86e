package main

import (
	"errors"
	"os"

	"github.com/wonny/yfparity/cmd/parity/commands"
)

// main is the entry point for the parity CLI.
// Exit codes: 0 clean run, 1 comparison failures, 2 usage/setup errors.
func main() {
	if err := commands.Execute(); err != nil {
		var exitErr *commands.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(2)
	}
}
