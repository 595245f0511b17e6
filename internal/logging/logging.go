// Package logging initializes the global zerolog logger.
package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/backmassage/splicer/internal/term"
)

// Init configures the global logger. SP_LOG_LEVEL selects the level
// (debug, info, warn, error; default info). On a TTY the console writer
// is used; otherwise plain JSON lines, which is what you want when the
// output is piped or captured.
func Init() {
	switch os.Getenv("SP_LOG_LEVEL") {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if term.IsTerminal(os.Stderr) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !term.WantColor()})
	} else {
		log.Logger = log.Output(os.Stderr)
	}
}
