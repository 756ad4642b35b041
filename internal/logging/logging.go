// Package logging builds the structured zap logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string
	// JSON switches the console encoder from human-readable to JSON.
	JSON bool
	// File, when set, adds a rotating JSON file core.
	File string
	// Console receives console output. Defaults to stderr so command output stays clean.
	Console io.Writer
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zap.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zap.InfoLevel, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

// New builds a logger with a console core and an optional rotating file core.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)

	var consoleEncoder zapcore.Encoder
	if opts.JSON {
		consoleEncoder = jsonEncoder
	} else {
		devConfig := zap.NewDevelopmentEncoderConfig()
		devConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		consoleEncoder = zapcore.NewConsoleEncoder(devConfig)
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(console)), level),
	}

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(rotator), zap.DebugLevel))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
