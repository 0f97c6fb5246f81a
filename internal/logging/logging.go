// Package logging builds the zap logger used by every component.
package logging

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Stderr as a path sends logs to standard error instead of a file.
const Stderr = "-"

// New returns a console-encoded logger writing to path at the given level,
// tagged with a fresh session id, and a function that flushes and closes
// the output.
func New(path, level string) (*zap.Logger, func() error, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var out zapcore.WriteSyncer
	closeOut := func() error { return nil }
	if path == "" || path == Stderr {
		out = zapcore.Lock(os.Stderr)
	} else {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = zapcore.AddSync(f)
		closeOut = f.Close
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), out, lvl)
	logger := zap.New(core).With(zap.String("session", uuid.NewString()))

	closer := func() error {
		_ = logger.Sync()
		return closeOut()
	}
	return logger, closer, nil
}
