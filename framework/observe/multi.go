package observe

import "github.com/km-arc/go-sahara/framework/container"

type multi []container.Observer

// Multi fans every event out to observers, in order. Nil entries are
// dropped.
func Multi(observers ...container.Observer) container.Observer {
	var m multi
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multi) Observe(e container.Event) {
	for _, o := range m {
		o.Observe(e)
	}
}
