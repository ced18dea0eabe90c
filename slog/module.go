package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/s1000d"
)

// Ensure LoggingModuleService implements s1000d.ModuleService.
var _ s1000d.ModuleService = (*LoggingModuleService)(nil)

// LoggingModuleService wraps a ModuleService with debug logging.
type LoggingModuleService struct {
	next   s1000d.ModuleService
	logger *slog.Logger
}

// NewLoggingModuleService creates a new LoggingModuleService.
func NewLoggingModuleService(next s1000d.ModuleService, logger *slog.Logger) *LoggingModuleService {
	return &LoggingModuleService{next: next, logger: logger}
}

func (s *LoggingModuleService) CreateModule(ctx context.Context, m *s1000d.Module) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create module",
			"id", m.ID,
			"bytes", len(m.XML),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateModule(ctx, m)
}

func (s *LoggingModuleService) FindModuleByID(ctx context.Context, id string) (m *s1000d.Module, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find module",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindModuleByID(ctx, id)
}

func (s *LoggingModuleService) FindModules(ctx context.Context, filter s1000d.ModuleFilter) (modules []*s1000d.Module, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find modules",
			"count", len(modules),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindModules(ctx, filter)
}

func (s *LoggingModuleService) DeleteModule(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete module",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteModule(ctx, id)
}
