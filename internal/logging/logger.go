// Package logging builds the diagnostic logger used by the envguard command.
// It writes to stderr so reports and JSON on stdout stay machine-readable.
package logging

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = log.WarnLevel

// New creates a logger at the given level writing to w.
// A nil writer means stderr.
func New(level log.Level, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	return logger
}

// NewNop returns a logger that discards everything.
func NewNop() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(log.PanicLevel)
	return logger
}

// ParseLevel maps a level name to a logrus level.
// Empty input yields DefaultLevel.
func ParseLevel(name string) (log.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultLevel, nil
	}
	return log.ParseLevel(name)
}
