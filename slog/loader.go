// Package slog decorates pipeline services with structured logging.
package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/s1000d"
)

// Ensure LoggingLoader implements s1000d.Loader.
var _ s1000d.Loader = (*LoggingLoader)(nil)

// LoggingLoader wraps a Loader with logging.
type LoggingLoader struct {
	next   s1000d.Loader
	format s1000d.Format
	logger *slog.Logger
}

// NewLoggingLoader creates a new LoggingLoader for loaders of format.
func NewLoggingLoader(next s1000d.Loader, format s1000d.Format, logger *slog.Logger) *LoggingLoader {
	return &LoggingLoader{next: next, format: format, logger: logger}
}

// Load delegates to the wrapped loader and logs the operation.
func (l *LoggingLoader) Load(ctx context.Context, r io.Reader) (doc *s1000d.Document, err error) {
	defer func(begin time.Time) {
		var blocks, pages int
		if doc != nil {
			blocks, pages = len(doc.Blocks), doc.PageCount
		}
		l.logger.Info("load",
			"format", string(l.format),
			"blocks", blocks,
			"pages", pages,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return l.next.Load(ctx, r)
}
