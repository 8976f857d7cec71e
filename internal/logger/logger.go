// Package logger provides the global zerolog logger for agsctl.
// Console output is human-readable; the optional log file is JSON with
// rotation handled by lumberjack.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Log is the global logger instance. Until Init runs it discards
	// everything, so packages can log safely from tests.
	Log = zerolog.Nop()

	// fileWriter is the rotating file output, nil when file logging is off.
	fileWriter *lumberjack.Logger
)

// Init initializes console-only logging. Use InitWithFile for file logging.
func Init(debug bool) {
	Log = zerolog.New(consoleWriter()).
		Level(level(debug)).
		With().
		Timestamp().
		Logger()
}

// InitWithFile initializes the logger with console output plus a rotating
// JSON log file under logsDir. An empty logsDir behaves like Init.
func InitWithFile(debug bool, logsDir string) error {
	if logsDir == "" {
		Init(debug)
		return nil
	}

	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileWriter = &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, "agsctl.log"),
		MaxSize:    50, // MB
		MaxAge:     7,  // days
		MaxBackups: 3,
		LocalTime:  true,
	}

	Log = zerolog.New(io.MultiWriter(consoleWriter(), fileWriter)).
		Level(level(debug)).
		With().
		Timestamp().
		Logger()

	return nil
}

// CloseFileWriter closes the file writer if one is open.
// Call on program shutdown for clean log file closure.
func CloseFileWriter() error {
	if fileWriter != nil {
		err := fileWriter.Close()
		fileWriter = nil
		return err
	}
	return nil
}

func consoleWriter() io.Writer {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
}

func level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// Debug logs a debug message.
func Debug() *zerolog.Event {
	return Log.Debug()
}

// Info logs an info message.
func Info() *zerolog.Event {
	return Log.Info()
}

// Warn logs a warning message.
func Warn() *zerolog.Event {
	return Log.Warn()
}

// Error logs an error message.
func Error() *zerolog.Event {
	return Log.Error()
}
