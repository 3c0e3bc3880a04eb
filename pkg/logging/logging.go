// Package logging builds the zerolog loggers used across spool.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// DefaultLevel keeps routine repairs out of the way of command output.
const DefaultLevel = zerolog.WarnLevel

// ParseLevel maps a configured level name to a zerolog level. An empty name
// is DefaultLevel.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		return DefaultLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	case "off", "none":
		return zerolog.Disabled, nil
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return DefaultLevel, fmt.Errorf("logging: unknown level %q", name)
	}
	return lvl, nil
}

// New returns a human-readable logger writing to w. Colors are only used
// when w is a terminal.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	}
	return zerolog.New(console).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// To is New on w at the named level. Unknown names fall back to DefaultLevel
// and are reported through the returned logger.
func To(w io.Writer, level string) zerolog.Logger {
	lvl, err := ParseLevel(level)
	log := New(w, lvl)
	if err != nil {
		log.Warn().Err(err).Msg("using default log level")
	}
	return log
}

// Stderr is To on os.Stderr.
func Stderr(level string) zerolog.Logger {
	return To(os.Stderr, level)
}

// Component tags every event of log with the emitting component.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
