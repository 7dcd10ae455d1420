package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger  = zap.NewNop()
	sugar   = logger.Sugar()
	logFile *os.File
	mu      sync.Mutex
	isSetup bool
)

// SetupLogger starts writing JSON log lines to logFilePath. Debug enables
// per-file debug entries; otherwise only info and above are kept.
func SetupLogger(logFilePath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	// Check if logger is already set up
	if isSetup {
		return nil
	}

	f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(f), level)

	logFile = f
	logger = zap.New(core)
	sugar = logger.Sugar()
	isSetup = true

	logger.Info("thumbnailer log started", zap.String("at", time.Now().Format(time.RFC3339)))
	return nil
}

// SetLogger replaces the package logger, mainly for tests
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()

	if l == nil {
		l = zap.NewNop()
	}
	logger = l
	sugar = l.Sugar()
}

// Logger returns the package logger for components that take one injected
func Logger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// CloseLogger flushes and closes the log file
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logger.Info("thumbnailer log closed", zap.String("at", time.Now().Format(time.RFC3339)))
		_ = logger.Sync()
		logFile.Close()
		logFile = nil
	}
	logger = zap.NewNop()
	sugar = logger.Sugar()
	isSetup = false
}

func current() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return sugar
}

// LogInfo logs an information message
func LogInfo(format string, args ...interface{}) {
	current().Infof(format, args...)
}

// DebugLog logs a message if debug mode is enabled
func DebugLog(format string, args ...interface{}) {
	current().Debugf(format, args...)
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	current().Errorf(format, args...)
}

// LogWarning logs a warning message
func LogWarning(format string, args ...interface{}) {
	current().Warnf(format, args...)
}

// LogImageProcessed logs when an image is processed
func LogImageProcessed(path string, success bool, errMsg string) {
	l := current()
	if success {
		l.Debugw("processed", "path", path)
	} else {
		l.Warnw("failed", "path", path, "error", errMsg)
	}
}
