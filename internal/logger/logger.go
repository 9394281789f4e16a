package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It discards everything until Configure
// is called so packages can log unconditionally.
var Log = zap.NewNop()

// Configure builds a logger for the given level. Development mode switches
// to the console encoder with caller info and stack traces on warnings.
func Configure(level string, development bool) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = l
	return nil
}

// Sync flushes buffered entries. Errors from syncing stdout/stderr are
// ignored, they are expected on most terminals.
func Sync() {
	_ = Log.Sync()
}
