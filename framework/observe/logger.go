package observe

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-sahara/framework/container"
)

// Logger writes one debug entry per resolution.
type Logger struct {
	log *zap.Logger
}

// NewLogger returns an observer logging to log. A nil log is replaced by a
// no-op logger.
func NewLogger(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log.Named("container")}
}

func (l *Logger) Observe(e container.Event) {
	l.log.Debug("resolved",
		zap.String("key", e.Key),
		zap.String("phase", string(e.Phase)),
		zap.Duration("elapsed", e.Elapsed),
		zap.String("container_id", e.ContainerID),
	)
}
