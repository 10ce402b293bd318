package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger builds a logger writing to w at the level named by
// SNAKE_LOG_LEVEL (info when unset or invalid).
func NewLogger(w io.Writer, prefix string) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(GetEnv("SNAKE_LOG_LEVEL", "info")))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
	})
}

// OpenLogFile returns a logger appending to SNAKE_LOG_FILE, or a discarding
// logger when the variable is unset. The returned close func is never nil.
func OpenLogFile(prefix string) (*log.Logger, func() error, error) {
	path := GetEnv("SNAKE_LOG_FILE", "")
	if path == "" {
		return log.New(io.Discard), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log.New(io.Discard), func() error { return nil }, fmt.Errorf("open log file: %w", err)
	}
	return NewLogger(f, prefix), f.Close, nil
}
