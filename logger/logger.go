// Package logger provides a configurable structured logger shared across
// this pipeline's packages.
//
// The root logger defined by default uses github.com/rs/zerolog with a
// console writer.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Debug is read from the SEZKP_DEBUG environment variable. It has no
// relation to constraint-system debugging (there is no constraint system
// here): init consults it once, and when it is set the logger stays active
// inside test binaries instead of being replaced by a no-op. Changing it
// after init has no effect.
var Debug = os.Getenv("SEZKP_DEBUG") != ""

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	logger = zerolog.New(output).With().Timestamp().Logger()

	if !Debug && strings.HasSuffix(os.Args[0], ".test") {
		logger = zerolog.Nop()
	}
}

// SetOutput changes the output of the global logger.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// Set allows a caller to override the global logger.
func Set(l zerolog.Logger) {
	logger = l
}

// Disable disables logging.
func Disable() {
	logger = zerolog.Nop()
}

// Logger returns a pointer to the global logger.
func Logger() *zerolog.Logger {
	return &logger
}
