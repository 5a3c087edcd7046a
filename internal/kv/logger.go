package kv

import (
	"context"
	"log/slog"

	"github.com/LavishGent/kvfacade/internal/types"
)

// slogAdapter lets a caller-supplied types.Logger sit behind *slog.Logger.
//
//nolint:govet // Simple adapter struct - alignment optimization minimal
type slogAdapter struct {
	attrs  []slog.Attr
	logger types.Logger
	group  string
}

func (a slogAdapter) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

//nolint:gocritic // slog.Handler interface requires passing Record by value
func (a slogAdapter) Handle(ctx context.Context, r slog.Record) error {
	args := make([]any, 0, (len(a.attrs)+r.NumAttrs())*2)

	for _, attr := range a.attrs {
		args = append(args, a.qualify(attr.Key), attr.Value.Resolve().Any())
	}

	r.Attrs(func(attr slog.Attr) bool {
		args = append(args, a.qualify(attr.Key), attr.Value.Resolve().Any())
		return true
	})

	switch {
	case r.Level >= slog.LevelError:
		a.logger.Error(r.Message, args...)
	case r.Level >= slog.LevelWarn:
		a.logger.Warn(r.Message, args...)
	case r.Level >= slog.LevelInfo:
		a.logger.Info(r.Message, args...)
	default:
		a.logger.Debug(r.Message, args...)
	}
	return nil
}

func (a slogAdapter) qualify(key string) string {
	if a.group == "" {
		return key
	}
	return a.group + "." + key
}

func (a slogAdapter) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(a.attrs), len(a.attrs)+len(attrs))
	copy(newAttrs, a.attrs)
	newAttrs = append(newAttrs, attrs...)
	return slogAdapter{
		logger: a.logger,
		attrs:  newAttrs,
		group:  a.group,
	}
}

func (a slogAdapter) WithGroup(name string) slog.Handler {
	newGroup := name
	if a.group != "" {
		newGroup = a.group + "." + name
	}
	return slogAdapter{
		logger: a.logger,
		attrs:  a.attrs,
		group:  newGroup,
	}
}

// resolveLogger prefers an explicit *slog.Logger, then a wrapped types.Logger.
func resolveLogger(opts *Options) *slog.Logger {
	switch {
	case opts != nil && opts.SlogLogger != nil:
		return opts.SlogLogger
	case opts != nil && opts.Logger != nil:
		return slog.New(slogAdapter{logger: opts.Logger})
	default:
		return slog.Default()
	}
}
