package container

import (
	"cmp"
	"context"
	"slices"
)

// builder constructs Type registrations. Every dependency goes back through
// the owning container, so nested builds get the same lifetime caching,
// interception and injection as top-level ones.
type builder struct {
	c *Container
}

// newInstance resolves info's dependencies in position order, calls the
// construction adapter and binds interception to the result.
func (b builder) newInstance(ctx context.Context, info TypeInfo, configs []*InterceptionConfig) (any, error) {
	deps := slices.Clone(info.Dependencies)
	slices.SortStableFunc(deps, func(x, y Dependency) int { return cmp.Compare(x.Position, y.Position) })

	args := make([]any, len(deps))
	for i, dep := range deps {
		v, err := b.c.ResolveContext(ctx, dep.Key)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	instance, err := info.Construct(args)
	if err != nil {
		return nil, err
	}
	attachInterceptors(instance, configs)
	return instance, nil
}
