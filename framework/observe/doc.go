// Package observe provides container.Observer implementations backed by zap
// and Prometheus, plus a logging interception handler.
//
//	reg := prometheus.NewRegistry()
//	c := container.New(container.WithObserver(observe.Multi(
//	    observe.NewLogger(log),
//	    observe.NewMetrics(reg, "sahara"),
//	)))
package observe
