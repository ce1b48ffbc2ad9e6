package container

import (
	"context"
	"fmt"
	"reflect"
)

// ── Registration kinds ────────────────────────────────────────────────────────

// Kind tags how a Registration produces its instance.
type Kind int

const (
	KindType Kind = iota + 1
	KindInstance
	KindFactory
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindInstance:
		return "instance"
	case KindFactory:
		return "factory"
	default:
		return "unknown"
	}
}

// ── Type metadata ─────────────────────────────────────────────────────────────

// Dependency is one constructor argument: the value resolved for Key is
// passed at Position. Param is informational.
type Dependency struct {
	Position int
	Key      string
	Param    string
}

// Arg declares a dependency explicitly.
func Arg(position int, key, param string) Dependency {
	return Dependency{Position: position, Key: key, Param: param}
}

// Constructor receives resolved arguments in position order and returns a
// new instance.
type Constructor func(args []any) (any, error)

// TypeInfo is the statically declared description of a constructible type.
type TypeInfo struct {
	Name         string
	Dependencies []Dependency
	Construct    Constructor
}

// Describe builds a TypeInfo whose dependencies are the given keys, in order.
//
//	info := container.Describe("Service", container.Adapt1(NewService), "Logger")
func Describe(name string, construct Constructor, keys ...string) TypeInfo {
	deps := make([]Dependency, len(keys))
	for i, k := range keys {
		deps[i] = Dependency{Position: i, Key: k, Param: k}
	}
	return TypeInfo{Name: name, Dependencies: deps, Construct: construct}
}

// With returns a copy of info with extra explicitly positioned dependencies.
func (info TypeInfo) With(deps ...Dependency) TypeInfo {
	info.Dependencies = append(append([]Dependency(nil), info.Dependencies...), deps...)
	return info
}

// Keys returns the dependency keys in declaration order.
func (info TypeInfo) Keys() []string {
	keys := make([]string, len(info.Dependencies))
	for i, d := range info.Dependencies {
		keys[i] = d.Key
	}
	return keys
}

// ── Construction adapters ─────────────────────────────────────────────────────

// Adapt0 wraps a constructor without arguments.
func Adapt0[T any](fn func() T) Constructor {
	return func(_ []any) (any, error) { return fn(), nil }
}

// Adapt1 wraps a one-argument constructor.
func Adapt1[A, T any](fn func(A) T) Constructor {
	return func(args []any) (any, error) {
		a, err := argAt[A](args, 0)
		if err != nil {
			return nil, err
		}
		return fn(a), nil
	}
}

// Adapt2 wraps a two-argument constructor.
func Adapt2[A, B, T any](fn func(A, B) T) Constructor {
	return func(args []any) (any, error) {
		a, err := argAt[A](args, 0)
		if err != nil {
			return nil, err
		}
		b, err := argAt[B](args, 1)
		if err != nil {
			return nil, err
		}
		return fn(a, b), nil
	}
}

// Adapt3 wraps a three-argument constructor.
func Adapt3[A, B, C, T any](fn func(A, B, C) T) Constructor {
	return func(args []any) (any, error) {
		a, err := argAt[A](args, 0)
		if err != nil {
			return nil, err
		}
		b, err := argAt[B](args, 1)
		if err != nil {
			return nil, err
		}
		c, err := argAt[C](args, 2)
		if err != nil {
			return nil, err
		}
		return fn(a, b, c), nil
	}
}

func argAt[A any](args []any, i int) (A, error) {
	var zero A
	if i >= len(args) {
		return zero, &ArgumentTypeError{Position: i, Want: reflect.TypeFor[A]().String(), Got: "<missing>"}
	}
	if args[i] == nil {
		return zero, nil
	}
	a, ok := args[i].(A)
	if !ok {
		return zero, &ArgumentTypeError{Position: i, Want: reflect.TypeFor[A]().String(), Got: fmt.Sprintf("%T", args[i])}
	}
	return a, nil
}

// ── Factories ─────────────────────────────────────────────────────────────────

// Factory builds an instance with full access to the container.
type Factory func(ctx context.Context, c *Container) (any, error)

// AsyncFactory reports its result through done, possibly from another
// goroutine. done must be called exactly once.
type AsyncFactory func(c *Container, done func(instance any, err error))

// FromAsync adapts an AsyncFactory. The returned Factory waits for done or
// for ctx to be cancelled, whichever comes first.
func FromAsync(f AsyncFactory) Factory {
	type result struct {
		instance any
		err      error
	}
	return func(ctx context.Context, c *Container) (any, error) {
		ch := make(chan result, 1)
		f(c, func(instance any, err error) {
			select {
			case ch <- result{instance, err}:
			default:
			}
		})
		select {
		case r := <-ch:
			return r.instance, r.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// ── Registration ──────────────────────────────────────────────────────────────

// Registration describes how to produce the instance stored under Name.
// Registrations are immutable once stored.
type Registration struct {
	Name       string
	Kind       Kind
	Lifetime   Lifetime
	Injections []Injection

	typeInfo TypeInfo
	instance any
	factory  Factory
}

// TypeInfo returns the declared metadata of a KindType registration.
func (r *Registration) TypeInfo() TypeInfo { return r.typeInfo }

// RegistrationInfo is a read-only summary used for introspection.
type RegistrationInfo struct {
	Key          string   `json:"key"`
	Kind         string   `json:"kind"`
	Lifetime     string   `json:"lifetime"`
	Dependencies []string `json:"dependencies,omitempty"`
	Injections   int      `json:"injections"`
}

func (r *Registration) info() RegistrationInfo {
	info := RegistrationInfo{
		Key:        r.Name,
		Kind:       r.Kind.String(),
		Lifetime:   lifetimeName(r.Lifetime),
		Injections: len(r.Injections),
	}
	if r.Kind == KindType {
		info.Dependencies = r.typeInfo.Keys()
	}
	return info
}

func lifetimeName(l Lifetime) string {
	if s, ok := l.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", l)
}

// ── Registration options ──────────────────────────────────────────────────────

type registerOptions struct {
	key        string
	lifetime   Lifetime
	injections []Injection
}

// RegisterOption customises a single Register* call.
type RegisterOption func(*registerOptions)

// WithKey sets the resolution key.
func WithKey(key string) RegisterOption {
	return func(o *registerOptions) { o.key = key }
}

// WithLifetime sets the lifetime manager. The manager must not be shared
// with another registration.
func WithLifetime(l Lifetime) RegisterOption {
	return func(o *registerOptions) { o.lifetime = l }
}

// WithInjections appends injections run after every fresh build.
func WithInjections(injections ...Injection) RegisterOption {
	return func(o *registerOptions) { o.injections = append(o.injections, injections...) }
}

// ── Keys ──────────────────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, dereferencing one
// level of pointer.
//
//	key := container.TypeKey(&Logger{})  // "main.Logger"
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// KeyOf returns the key TypeKey would derive for a value of type T.
//
//	c.RegisterInstance(logger)                    // key: TypeKey(logger)
//	l, err := container.ResolveAs[*Logger](ctx, c, container.KeyOf[*Logger]())
func KeyOf[T any]() string {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
