package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/s1000d"
)

// Ensure LoggingConverter implements s1000d.Converter.
var _ s1000d.Converter = (*LoggingConverter)(nil)

// LoggingConverter wraps a Converter with logging.
type LoggingConverter struct {
	next   s1000d.Converter
	logger *slog.Logger
}

// NewLoggingConverter creates a new LoggingConverter.
func NewLoggingConverter(next s1000d.Converter, logger *slog.Logger) *LoggingConverter {
	return &LoggingConverter{next: next, logger: logger}
}

// Convert delegates to the wrapped converter and logs the outcome.
func (c *LoggingConverter) Convert(ctx context.Context, up *s1000d.Upload) (m *s1000d.Module, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"file", up.Filename,
			"mode", string(up.Mode),
			"bytes", len(up.Data),
			"duration", time.Since(begin),
		}
		if m != nil {
			attrs = append(attrs, "id", m.ID, "type", string(m.Type), "nodes", m.NodeCount)
		}
		if err != nil {
			attrs = append(attrs, "err", err)
			c.logger.Warn("convert", attrs...)
			return
		}
		c.logger.Info("convert", attrs...)
	}(time.Now())
	return c.next.Convert(ctx, up)
}
