// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	appDir  = "abr"
	logName = "abr.log"
)

// Options controls where log output goes.
type Options struct {
	// Level is a zerolog level name. Empty means warn.
	Level string
	// Verbose lowers the level to debug and adds caller information.
	Verbose bool
	// NoColor disables console coloring.
	NoColor bool
	// Console receives human-readable output. Defaults to stderr.
	Console io.Writer
	// File is the append-only log file. Empty means LogFilePath(); "-" disables it.
	File string
}

// Setup configures the global logger with the console writer on stderr and the
// log file under the XDG state directory. The returned closer releases the file.
func Setup(level string, verbose bool) io.Closer {
	return Configure(Options{Level: level, Verbose: verbose})
}

// Configure configures the global logger from opts.
func Configure(opts Options) io.Closer {
	lvl := ParseLevel(opts.Level)
	if opts.Verbose && lvl > zerolog.DebugLevel {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    opts.NoColor,
	}}

	path := opts.File
	if path == "" {
		path = LogFilePath()
	}
	var (
		file    *os.File
		fileErr error
	)
	if path != "-" {
		file, fileErr = openLogFile(path)
		if fileErr == nil {
			writers = append(writers, file)
		}
	}

	log.Logger = zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	if opts.Verbose {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("log file unavailable, logging to console only")
	}
	log.Debug().Str("level", lvl.String()).Str("log_file", path).Msg("logger initialized")

	if file == nil {
		return nopCloser{}
	}
	return file
}

// ParseLevel maps a level name to a zerolog level. Unknown names mean warn.
func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return lvl
}

// For returns a child logger tagged with component.
func For(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// LogFilePath returns $XDG_STATE_HOME/abr/abr.log.
func LogFilePath() string {
	return filepath.Join(xdg.StateHome, appDir, logName)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
