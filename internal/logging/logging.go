// Package logging builds the logrus logger storefront writes to its log file.
// The terminal belongs to the TUI, so entries never go to stdout.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Logger is a logrus logger plus the file it writes to.
type Logger struct {
	*logrus.Logger
	file *os.File
}

// New opens path for appending and returns a JSON logger at level. An empty
// path yields a logger that discards everything.
func New(path, level string) (*Logger, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	lvl := logrus.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, errors.Wrap(err, "parse log level")
		}
		lvl = parsed
	}
	log.SetLevel(lvl)

	if strings.TrimSpace(path) == "" {
		log.SetOutput(io.Discard)
		return &Logger{Logger: log}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create log dir")
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open log file")
	}
	log.SetOutput(file)
	return &Logger{Logger: log, file: file}, nil
}

// Discard returns a logger that drops every entry.
func Discard() *Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Logger{Logger: log}
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
