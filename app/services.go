// Package app holds the demo application's services and its provider.
package app

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/km-arc/go-sahara/framework/container"
)

// Journal records lines written by services.
type Journal struct {
	log *zap.Logger

	mu    sync.Mutex
	lines []string
}

func NewJournal(log *zap.Logger) *Journal {
	return &Journal{log: log.Named("journal")}
}

func (j *Journal) Write(line string) {
	j.mu.Lock()
	j.lines = append(j.lines, line)
	j.mu.Unlock()
	j.log.Debug(line)
}

// Lines returns a copy of everything written so far.
func (j *Journal) Lines() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.lines...)
}

// Worker does the demo's unit of work. Its methods are interceptable.
type Worker struct {
	container.Hooks
	journal *Journal
}

func NewWorker(j *Journal) *Worker { return &Worker{journal: j} }

// DoWork doubles n.
func (w *Worker) DoWork(ctx context.Context, n int) (int, error) {
	out, err := w.Invoke(ctx, "DoWork", []any{n}, func(_ context.Context, args []any) (any, error) {
		n := args[0].(int)
		if n < 0 {
			return nil, fmt.Errorf("worker: negative input %d", n)
		}
		w.journal.Write(fmt.Sprintf("doubled %d", n))
		return n * 2, nil
	})
	if err != nil {
		return 0, err
	}
	return out.(int), nil
}
