package mock

import (
	"context"

	"github.com/fwojciec/s1000d"
)

var _ s1000d.ModuleService = (*ModuleService)(nil)

// ModuleService is a mock implementation of s1000d.ModuleService.
type ModuleService struct {
	CreateModuleFn   func(ctx context.Context, m *s1000d.Module) error
	FindModuleByIDFn func(ctx context.Context, id string) (*s1000d.Module, error)
	FindModulesFn    func(ctx context.Context, filter s1000d.ModuleFilter) ([]*s1000d.Module, error)
	DeleteModuleFn   func(ctx context.Context, id string) error
}

func (s *ModuleService) CreateModule(ctx context.Context, m *s1000d.Module) error {
	return s.CreateModuleFn(ctx, m)
}

func (s *ModuleService) FindModuleByID(ctx context.Context, id string) (*s1000d.Module, error) {
	return s.FindModuleByIDFn(ctx, id)
}

func (s *ModuleService) FindModules(ctx context.Context, filter s1000d.ModuleFilter) ([]*s1000d.Module, error) {
	return s.FindModulesFn(ctx, filter)
}

func (s *ModuleService) DeleteModule(ctx context.Context, id string) error {
	return s.DeleteModuleFn(ctx, id)
}
