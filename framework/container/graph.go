package container

import "slices"

// Graph is a directed graph over registration keys. It exists only to reject
// cyclic Type registrations; resolution never walks it.
type Graph struct {
	edges map[string][]string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{edges: make(map[string][]string)}
}

// Add inserts the edge from → to. Duplicate edges are ignored.
func (g *Graph) Add(from, to string) {
	if slices.Contains(g.edges[from], to) {
		return
	}
	g.edges[from] = append(g.edges[from], to)
}

// Set replaces every outgoing edge of from. An empty tos removes the node's
// edges entirely.
func (g *Graph) Set(from string, tos ...string) {
	if len(tos) == 0 {
		delete(g.edges, from)
		return
	}
	g.edges[from] = nil
	for _, to := range tos {
		g.Add(from, to)
	}
}

// Edges returns a copy of the keys that key depends on directly.
func (g *Graph) Edges(key string) []string {
	return slices.Clone(g.edges[key])
}

// Chain returns every key reachable from key, dependencies before
// dependents, ending with key itself. It fails with a
// *CircularDependencyError as soon as a key is revisited on the current path.
func (g *Graph) Chain(key string) ([]string, error) {
	var (
		chain   []string
		path    []string
		onPath  = make(map[string]bool)
		visited = make(map[string]bool)
	)

	var visit func(string) error
	visit = func(k string) error {
		if onPath[k] {
			start := slices.Index(path, k)
			cycle := append(slices.Clone(path[start:]), k)
			return &CircularDependencyError{Path: cycle}
		}
		if visited[k] {
			return nil
		}
		onPath[k] = true
		path = append(path, k)
		for _, dep := range g.edges[k] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		onPath[k] = false
		visited[k] = true
		chain = append(chain, k)
		return nil
	}

	if err := visit(key); err != nil {
		return nil, err
	}
	return chain, nil
}

// Clone returns a structural copy; edits to either graph stay local.
func (g *Graph) Clone() *Graph {
	cp := &Graph{edges: make(map[string][]string, len(g.edges))}
	for k, v := range g.edges {
		cp.edges[k] = slices.Clone(v)
	}
	return cp
}

// trySet replaces from's edges and validates the resulting chain, restoring
// the previous edges when a cycle is found.
func (g *Graph) trySet(from string, tos ...string) error {
	prev, had := g.edges[from]
	g.Set(from, tos...)
	if _, err := g.Chain(from); err != nil {
		if had {
			g.edges[from] = prev
		} else {
			delete(g.edges, from)
		}
		return err
	}
	return nil
}
