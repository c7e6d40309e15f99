// Package resource defines the declarative resource model shared by the
// timer and tmpfiles declarations and the orchestrator that applies them.
package resource

import (
	"fmt"
	"io/fs"

	"github.com/systemd-tools/timer-ops/internal/unit"
)

// Ensure states a resource can be declared with.
type Ensure string

// Supported ensure values.
const (
	Present Ensure = "present"
	Absent  Ensure = "absent"
)

// ParseEnsure validates and normalizes an ensure value.
func ParseEnsure(s string) (Ensure, error) {
	switch Ensure(s) {
	case Present:
		return Present, nil
	case Absent:
		return Absent, nil
	case "":
		// Declarations default to present, matching systemd tooling
		// conventions where removal is always explicit.
		return Present, nil
	default:
		return "", fmt.Errorf("invalid ensure value %q (want %q or %q)", s, Present, Absent)
	}
}

// Kind discriminates the concrete resource types a declaration expands to.
type Kind string

// Resource kinds.
const (
	KindUnitFile  Kind = "unit-file"
	KindUnitState Kind = "unit-state"
	KindFile      Kind = "file"
)

// Resource is one concrete item produced by expanding a declaration.
// Exactly one of the kind-specific field groups is populated.
type Resource struct {
	ID     string
	Kind   Kind
	Ensure Ensure

	// KindUnitFile
	Unit *unit.File

	// KindUnitState: run/enable state of a named unit.
	UnitName string
	Enabled  bool
	Active   bool

	// KindFile
	Path    string
	Content string
	Mode    fs.FileMode
}

// Edge is an apply-order constraint: Before is applied before After when
// the declaration is present. Teardown reverses every edge.
type Edge struct {
	Before string
	After  string
}

// Set is the ordered expansion of a single declaration.
type Set struct {
	Ensure    Ensure
	Resources []Resource
	Edges     []Edge
}

// Find returns the resource with the given ID, or nil.
func (s *Set) Find(id string) *Resource {
	for i := range s.Resources {
		if s.Resources[i].ID == id {
			return &s.Resources[i]
		}
	}
	return nil
}
