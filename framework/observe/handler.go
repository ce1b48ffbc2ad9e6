package observe

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-sahara/framework/container"
)

// LoggingHandler returns an interception handler that logs every call it
// wraps, with its duration and error.
//
//	c.Intercept(container.ForMethod("DoWork"), observe.LoggingHandler(log)).Sync()
func LoggingHandler(log *zap.Logger) container.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("intercept")
	return func(inv *container.Invocation, next func() error) error {
		start := time.Now()
		err := next()

		fields := []zap.Field{
			zap.String("target", fmt.Sprintf("%T", inv.Target)),
			zap.String("method", inv.Method),
			zap.Int("args", len(inv.Args)),
			zap.Duration("elapsed", time.Since(start)),
		}
		if err != nil {
			log.Warn("call failed", append(fields, zap.Error(err))...)
			return err
		}
		log.Info("call", fields...)
		return nil
	}
}
