package container_test

import (
	"context"

	"github.com/km-arc/go-sahara/framework/container"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type Logger struct {
	Lines []string
}

func NewLogger() *Logger { return &Logger{} }

type Service struct {
	container.Hooks
	Logger *Logger
	calls  int
}

func NewService(l *Logger) *Service { return &Service{Logger: l} }

// DoWork doubles n; the body counts its own executions.
func (s *Service) DoWork(ctx context.Context, n int) (int, error) {
	out, err := s.Invoke(ctx, "DoWork", []any{n}, func(_ context.Context, args []any) (any, error) {
		s.calls++
		return args[0].(int) * 2, nil
	})
	if err != nil {
		return 0, err
	}
	return out.(int), nil
}

// Rest is never matched by method-specific rules.
func (s *Service) Rest(ctx context.Context) error {
	_, err := s.Invoke(ctx, "Rest", nil, func(context.Context, []any) (any, error) {
		return nil, nil
	})
	return err
}

func loggerInfo() container.TypeInfo {
	return container.Describe("Logger", container.Adapt0(NewLogger))
}

func serviceInfo() container.TypeInfo {
	return container.Describe("Service", container.Adapt1(NewService), "Logger")
}
