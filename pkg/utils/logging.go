package utils

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// Logger returns the process-wide structured logger. Setting LOG_FILE tees
// JSON output to that file in addition to stdout; otherwise the standard
// production logger is used.
func Logger() *zap.Logger {
	if logger != nil {
		return logger
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logger, _ = zap.NewProduction()
		return logger
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		logger, _ = zap.NewProduction()
		return logger
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger, _ = zap.NewProduction()
		return logger
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	fileCore := zapcore.NewCore(enc, zapcore.AddSync(f), zapcore.InfoLevel)
	consoleCore := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)
	logger = zap.New(zapcore.NewTee(fileCore, consoleCore))
	return logger
}
