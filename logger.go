package voxgo

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/voxgo/geom"
)

// Logger wraps slog.Logger with voxgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithDims adds the top-level dimensions to the logger.
func (l *Logger) WithDims(dims geom.IVec3) *Logger {
	return &Logger{
		Logger: l.Logger.With("dims_x", dims.X, "dims_y", dims.Y, "dims_z", dims.Z),
	}
}

// WithSnapshot adds a snapshot name field to the logger.
func (l *Logger) WithSnapshot(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("snapshot", name),
	}
}

// LogFreeze logs a builder handoff.
func (l *Logger) LogFreeze(dims geom.IVec3, cells, refs int, compressed bool) {
	l.Debug("grid frozen",
		"dims_x", dims.X,
		"dims_y", dims.Y,
		"dims_z", dims.Z,
		"cells", cells,
		"refs", refs,
		"compressed", compressed,
	)
}

// LogRangeQuery logs a box overlap query.
func (l *Logger) LogRangeQuery(ctx context.Context, voxels int64, refs int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "range query failed",
			"voxels", voxels,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "range query completed",
			"voxels", voxels,
			"refs", refs,
		)
	}
}

// LogSnapshotSave logs a snapshot write.
func (l *Logger) LogSnapshotSave(ctx context.Context, name string, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot save failed",
			"snapshot", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"snapshot", name,
			"bytes", bytes,
		)
	}
}

// LogSnapshotLoad logs a snapshot read.
func (l *Logger) LogSnapshotLoad(ctx context.Context, name string, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"snapshot", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot loaded",
			"snapshot", name,
			"bytes", bytes,
		)
	}
}
