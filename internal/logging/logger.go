// Package logging builds the zap loggers used across the service.
package logging

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Formats accepted by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New returns a logger writing to stderr at the given level. The json format
// uses zap's production encoder, console the development one.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing log level %q", level)
	}

	var cfg zap.Config
	switch format {
	case FormatJSON:
		cfg = zap.NewProductionConfig()
	case FormatConsole, "":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, errors.Errorf("unknown log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return logger, nil
}

// PanicLogger logs panics recovered by graphql-go during query execution.
// It satisfies github.com/graph-gophers/graphql-go/log.Logger.
type PanicLogger struct {
	Logger *zap.Logger
}

// LogPanic logs the recovered value together with the goroutine stack.
func (l *PanicLogger) LogPanic(ctx context.Context, value interface{}) {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	l.Logger.Error("graphql: panic occurred",
		zap.Any("panic", value),
		zap.String("request_id", RequestID(ctx)),
		zap.ByteString("stack", buf),
	)
}
