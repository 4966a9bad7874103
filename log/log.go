package log

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

var base = logrus.New()

// Setup configures the process logger. Unknown levels fall back to info.
func Setup(level string, json bool) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	base.SetLevel(lvl)
	if json {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	base.SetOutput(os.Stdout)
}

// SetOutput redirects the process logger, mostly for tests.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// GetLogger returns the entry stored in ctx, or a bare entry on the process logger.
func GetLogger(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok && entry != nil {
			return entry
		}
	}
	return logrus.NewEntry(base)
}

// WithLogger stores entry in ctx so downstream calls log with its fields.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// WithFields is a shorthand for GetLogger(ctx).WithFields stored back into ctx.
func WithFields(ctx context.Context, fields logrus.Fields) context.Context {
	return WithLogger(ctx, GetLogger(ctx).WithFields(fields))
}
