// Package logger configures the process-wide diagnostic logger.
package logger

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Init initializes the logger. Debug turns on the engine diagnostics
// (collector stats, trace and step output); noColor forces plain text.
func Init(debug, noColor bool) {
	log.SetDefault(log.NewWithOptions(os.Stderr,
		log.Options{
			ReportTimestamp: false,
			TimeFormat:      time.RFC3339,
			Prefix:          "logo",
		}))

	if debug {
		log.SetLevel(log.DebugLevel)
	}

	log.SetColorProfile(termenv.ANSI256)
	if noColor {
		log.SetColorProfile(termenv.Ascii)
	}
}
