package container

import "context"

// Injection runs against an already constructed instance, after interception
// and before the lifetime stores it.
type Injection interface {
	Inject(ctx context.Context, instance any, c *Container) error
}

// InjectionFunc adapts a plain function to Injection.
type InjectionFunc func(ctx context.Context, instance any, c *Container) error

func (f InjectionFunc) Inject(ctx context.Context, instance any, c *Container) error {
	return f(ctx, instance, c)
}

// Setter assigns a resolved value onto an instance.
type Setter func(instance, value any) error

type propertyInjection struct {
	key string
	set Setter
}

// Property resolves key and hands the value to set.
//
//	container.Property("Logger", func(inst, v any) error {
//	    inst.(*Service).Logger = v.(*Logger)
//	    return nil
//	})
func Property(key string, set Setter) Injection {
	return &propertyInjection{key: key, set: set}
}

func (p *propertyInjection) Inject(ctx context.Context, instance any, c *Container) error {
	v, err := c.ResolveContext(ctx, p.key)
	if err != nil {
		return err
	}
	return p.set(instance, v)
}

// Value hands a fixed value to set, without touching the container.
func Value(value any, set Setter) Injection {
	return InjectionFunc(func(_ context.Context, instance any, _ *Container) error {
		return set(instance, value)
	})
}

type methodInjection struct {
	keys []string
	call func(instance any, args []any) error
}

// Method resolves keys in order and calls call with the resolved values.
func Method(call func(instance any, args []any) error, keys ...string) Injection {
	return &methodInjection{keys: keys, call: call}
}

func (m *methodInjection) Inject(ctx context.Context, instance any, c *Container) error {
	args := make([]any, len(m.keys))
	for i, k := range m.keys {
		v, err := c.ResolveContext(ctx, k)
		if err != nil {
			return err
		}
		args[i] = v
	}
	return m.call(instance, args)
}
