package config

import (
	"fmt"
	"os"
)

// Exitf prints the message to stderr and terminates with status 1. It is the
// fatal path for commands that fail to parse configuration or to start; once
// a game is running, errors travel back through structured results instead.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
