// Package term provides terminal detection for output formatting.
package term

import (
	"os"
	"strings"
)

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// WantColor reports whether colored console output should be used:
// stderr must be a TTY, NO_COLOR unset (https://no-color.org), and the
// terminal not declared dumb.
func WantColor() bool {
	return IsTerminal(os.Stderr) &&
		os.Getenv("NO_COLOR") == "" &&
		strings.ToLower(os.Getenv("TERM")) != "dumb"
}
