package logger

import (
	"fmt"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It discards everything until Init runs.
var Log = zap.NewNop().Sugar()

var (
	level   = zap.NewAtomicLevelAt(zap.InfoLevel)
	verbose atomic.Bool
)

// Init initializes the global logger.
// If logPath is provided, logs are appended to that file; otherwise they go
// to stderr so command output on stdout stays clean.
func Init(verboseFlag bool, logPath string) error {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encoderConfig.EncodeCaller = nil

	// No color codes in files
	if logPath != "" {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	verbose.Store(verboseFlag)
	SetDebug(false)

	writer := zapcore.AddSync(os.Stderr)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		writer = zapcore.AddSync(f)
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		writer,
		level,
	)

	Log = zap.New(core).Named("proxyprofiles").Sugar()
	return nil
}

// SetDebug toggles debug output at runtime. Debug stays on when Init was
// called with verbose set.
func SetDebug(enabled bool) {
	if enabled || verbose.Load() {
		level.SetLevel(zap.DebugLevel)
		return
	}
	level.SetLevel(zap.InfoLevel)
}

// DebugEnabled reports whether debug messages are currently written.
func DebugEnabled() bool {
	return level.Enabled(zap.DebugLevel)
}

// Sync flushes any buffered log entries.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
