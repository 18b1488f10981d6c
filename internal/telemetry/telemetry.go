// Package telemetry adapts a zerolog.Logger to the core.Logger interface
// so host tooling can back the trailer engine's optional advisory logging
// hook with real structured logging, the same role bootloader.Logger
// plays for the Cypress programmer this repository was adapted from.
package telemetry

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/flashtrail/bootutil/core"
)

// Config controls how New builds the underlying zerolog.Logger.
type Config struct {
	// Verbose enables debug-level output; otherwise info and above.
	Verbose bool

	// JSONOutput selects structured JSON lines instead of the
	// human-readable console writer.
	JSONOutput bool

	// Output is where log lines are written. Defaults to os.Stderr.
	Output io.Writer
}

// CoreLogger adapts a zerolog.Logger to core.Logger.
type CoreLogger struct {
	log zerolog.Logger
}

// New builds a CoreLogger from cfg.
func New(cfg Config) *CoreLogger {
	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var log zerolog.Logger
	if cfg.JSONOutput {
		log = zerolog.New(out).Level(level).With().Timestamp().Logger()
	} else {
		log = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}).Level(level).With().Timestamp().Logger()
	}

	return &CoreLogger{log: log}
}

// WithComponent returns a child CoreLogger tagging every line with a
// component field, mirroring the pattern used throughout the log
// packages this was grounded on.
func (c *CoreLogger) WithComponent(component string) *CoreLogger {
	return &CoreLogger{log: c.log.With().Str("component", component).Logger()}
}

var _ core.Logger = (*CoreLogger)(nil)

func (c *CoreLogger) Debugf(format string, args ...interface{}) {
	c.log.Debug().Msgf(format, args...)
}

func (c *CoreLogger) Infof(format string, args ...interface{}) {
	c.log.Info().Msgf(format, args...)
}

func (c *CoreLogger) Warnf(format string, args ...interface{}) {
	c.log.Warn().Msgf(format, args...)
}

// Error logs err at error level with kind as a structured field, the
// shape host tooling uses to report a failed core operation: the kind
// says which of the taxonomy's categories fired, err carries the
// specific cause.
func (c *CoreLogger) Error(kind core.Kind, err error, msg string) {
	c.log.Error().Str("kind", kind.String()).Err(err).Msg(msg)
}
