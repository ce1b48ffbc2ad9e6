package container

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrUnregistered is matched by every *UnregisteredKeyError.
	ErrUnregistered = errors.New("container: key not registered")

	// ErrCircularDependency is matched by every *CircularDependencyError.
	ErrCircularDependency = errors.New("container: circular dependency")

	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("container: invalid configuration")
)

// UnregisteredKeyError is returned when resolving or injecting a key that has
// no registration in the container.
type UnregisteredKeyError struct{ Key string }

func (e *UnregisteredKeyError) Error() string {
	// Example: container: nothing with key "logger" is registered
	return "container: nothing with key " + strconv.Quote(e.Key) + " is registered"
}

func (e *UnregisteredKeyError) Is(target error) bool { return target == ErrUnregistered }

// CircularDependencyError is returned by RegisterType when the new
// registration would close a cycle. Path starts and ends with the same key.
type CircularDependencyError struct{ Path []string }

func (e *CircularDependencyError) Error() string {
	// Example: container: circular dependency A -> B -> A
	return "container: circular dependency " + strings.Join(e.Path, " -> ")
}

func (e *CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// ConfigurationError reports a registration call that was rejected before
// any state was touched.
type ConfigurationError struct{ Reason string }

func (e *ConfigurationError) Error() string {
	return "container: " + e.Reason
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// ArgumentTypeError is returned by the Adapt helpers when a resolved
// dependency does not have the type the constructor expects.
type ArgumentTypeError struct {
	Position int
	Want     string
	Got      string
}

func (e *ArgumentTypeError) Error() string {
	// Example: container: argument 0 has type *main.Config, want *main.Logger
	return "container: argument " + strconv.Itoa(e.Position) + " has type " + e.Got + ", want " + e.Want
}
