// Package dependency provides apply-order computation for declared resources.
package dependency

import (
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"
)

// Graph is a directed acyclic graph of resource IDs. Edge direction is
// apply order: an edge a -> b means a is applied before b. Teardown order
// is the exact reverse of apply order.
type Graph struct {
	g graph.Graph[string, string]
}

// NewGraph creates an empty resource ordering graph. Cycles are rejected
// at edge insertion time.
func NewGraph() *Graph {
	return &Graph{
		g: graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles()),
	}
}

// AddResource ensures a resource ID exists in the graph.
func (dg *Graph) AddResource(id string) error {
	if id == "" {
		return fmt.Errorf("resource id cannot be empty")
	}
	err := dg.g.AddVertex(id)
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return fmt.Errorf("adding resource %s: %w", id, err)
	}
	return nil
}

// AddOrdering adds the constraint that before is applied before after.
func (dg *Graph) AddOrdering(before, after string) error {
	if before == "" || after == "" {
		return fmt.Errorf("ordering endpoints must be non-empty")
	}
	if before == after {
		return fmt.Errorf("resource cannot be ordered against itself: %s", before)
	}

	for _, id := range []string{before, after} {
		if err := dg.AddResource(id); err != nil {
			return err
		}
	}

	err := dg.g.AddEdge(before, after)
	if err != nil {
		if errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return nil
		}
		if errors.Is(err, graph.ErrEdgeCreatesCycle) {
			return fmt.Errorf("ordering %s -> %s creates a cycle: %w", before, after, err)
		}
		return fmt.Errorf("adding ordering %s -> %s: %w", before, after, err)
	}
	return nil
}

// ApplyOrder returns all resource IDs in topological order, lexically
// tie-broken for deterministic output.
func (dg *Graph) ApplyOrder() ([]string, error) {
	order, err := graph.StableTopologicalSort(dg.g, func(a, b string) bool {
		return a < b
	})
	if err != nil {
		return nil, fmt.Errorf("resolving apply order: %w", err)
	}
	return order, nil
}

// TeardownOrder returns the reverse of ApplyOrder: dependents are removed
// before the resources they depend on.
func (dg *Graph) TeardownOrder() ([]string, error) {
	order, err := dg.ApplyOrder()
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}
