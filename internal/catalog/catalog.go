// Package catalog models the set of test containers discovered for a run. Descriptors hold
// callable handles, so the engine never looks anything up by name.
package catalog

import (
	"context"

	"atr/internal/domain"
	"atr/internal/restcall"
)

// Constructor creates a fresh instance of a test container.
type Constructor func() (interface{}, error)

// Invoker calls one method of a test container instance.
type Invoker func(ctx context.Context, instance interface{}, rc *restcall.Client) error

// TypeHandle identifies a test container and knows how to construct it.
type TypeHandle struct {
	Name string
	New  Constructor
}

// MethodHandle identifies a method of a test container and knows how to invoke it.
type MethodHandle struct {
	Name   string
	Invoke Invoker
}

// ClassDescriptor describes one test container: the module it came from, its type, its test
// methods in declaration order and its optional hooks.
type ClassDescriptor struct {
	Module   string
	Type     TypeHandle
	Tests    []MethodHandle
	PreTest  *MethodHandle
	PostTest *MethodHandle
}

// Name returns the class name used for reporting.
func (d ClassDescriptor) Name() string {
	return d.Type.Name
}

// Units returns the identities of the class's test units in declaration order.
func (d ClassDescriptor) Units() []domain.UnitID {
	units := make([]domain.UnitID, 0, len(d.Tests))
	for _, m := range d.Tests {
		units = append(units, domain.UnitID{ClassName: d.Name(), TestName: m.Name})
	}
	return units
}

// Catalog is the ordered collection of discovered test containers.
type Catalog struct {
	Classes []ClassDescriptor
}

// New creates a Catalog holding the given descriptors in order.
func New(classes ...ClassDescriptor) *Catalog {
	return &Catalog{Classes: append([]ClassDescriptor(nil), classes...)}
}

// Add appends a descriptor.
func (c *Catalog) Add(d ClassDescriptor) {
	c.Classes = append(c.Classes, d)
}

// TotalTests returns the number of discovered units.
func (c *Catalog) TotalTests() int {
	total := 0
	for _, d := range c.Classes {
		total += len(d.Tests)
	}
	return total
}

// Units returns every unit identity in discovery order.
func (c *Catalog) Units() []domain.UnitID {
	units := make([]domain.UnitID, 0, c.TotalTests())
	for _, d := range c.Classes {
		units = append(units, d.Units()...)
	}
	return units
}

// IsEmpty reports whether the catalog holds no units at all.
func (c *Catalog) IsEmpty() bool {
	return c.TotalTests() == 0
}
