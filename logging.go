package hicolorgif

import (
	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"
	"github.com/willibrandon/mtlog/sinks"
)

// Logger is the subset of mtlog's core.Logger the pipeline needs: leveled,
// message-template style logging ("{Property}" placeholders filled
// positionally by the trailing arguments). Any core.Logger satisfies it.
type Logger interface {
	Debug(string, ...any)
	Information(string, ...any)
	Warning(string, ...any)
	Error(string, ...any)
}

// NewLogger wires a console-sink mtlog logger at the given level ("debug",
// "info", "warn", "error"; anything else falls back to "info").
func NewLogger(level string) Logger {
	sink := sinks.NewConsoleSink()
	opts := []mtlog.Option{mtlog.WithSink(sink)}

	switch level {
	case "debug":
		opts = append(opts, mtlog.WithMinimumLevel(core.DebugLevel))
	case "warn":
		opts = append(opts, mtlog.WithMinimumLevel(core.WarningLevel))
	case "error":
		opts = append(opts, mtlog.WithMinimumLevel(core.ErrorLevel))
	default:
		opts = append(opts, mtlog.WithMinimumLevel(core.InformationLevel))
	}

	return mtlog.New(opts...)
}

// nopLogger discards everything; used when the caller passes no Logger, so
// the pipeline never needs a nil check on its hot path.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any)       {}
func (nopLogger) Information(string, ...any) {}
func (nopLogger) Warning(string, ...any)     {}
func (nopLogger) Error(string, ...any)       {}

func logOrNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}
