// Package registry maps stable class identifiers to constructor functions and method
// tables. Test containers are registered at startup, so discovery and execution never
// depend on runtime type introspection.
package registry

import (
	"context"
	"fmt"
	"sync"

	"atr/internal/catalog"
	"atr/internal/restcall"
)

// DefaultModule is the module name of classes registered outside of a Module.
const DefaultModule = "registry"

// Module groups the registrations of one set of test containers.
type Module interface {
	Name() string
	Register(r *Registry)
}

// Registry holds every registered test container.
type Registry struct {
	classes map[string]*classEntry
	order   []string
	current string
	mu      sync.RWMutex
}

type classEntry struct {
	module      string
	name        string
	ctor        catalog.Constructor
	methods     map[string]catalog.Invoker
	methodOrder []string
	tests       []string
	preTest     string
	postTest    string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{classes: make(map[string]*classEntry)}
}

// RegisterModules registers each module in order.
func (r *Registry) RegisterModules(modules ...Module) {
	for _, m := range modules {
		r.mu.Lock()
		r.current = m.Name()
		r.mu.Unlock()

		m.Register(r)

		r.mu.Lock()
		r.current = ""
		r.mu.Unlock()
	}
}

func (r *Registry) addClass(name string, ctor catalog.Constructor) *classEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[name]; exists {
		panic(fmt.Sprintf("registry: class %s registered twice", name))
	}
	module := r.current
	if module == "" {
		module = DefaultModule
	}
	e := &classEntry{
		module:  module,
		name:    name,
		ctor:    ctor,
		methods: make(map[string]catalog.Invoker),
	}
	r.classes[name] = e
	r.order = append(r.order, name)
	return e
}

func (r *Registry) addMethod(e *classEntry, name string, invoke catalog.Invoker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := e.methods[name]; exists {
		panic(fmt.Sprintf("registry: method %s.%s registered twice", e.name, name))
	}
	e.methods[name] = invoke
	e.methodOrder = append(e.methodOrder, name)
}

// ClassNames returns the registered class identifiers in registration order.
func (r *Registry) ClassNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// LookupType returns the type handle of a registered class.
func (r *Registry) LookupType(class string) (catalog.TypeHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.classes[class]
	if !ok {
		return catalog.TypeHandle{}, false
	}
	return catalog.TypeHandle{Name: e.name, New: e.ctor}, true
}

// LookupMethod returns the handle of a method in a registered class's method table.
func (r *Registry) LookupMethod(class, method string) (catalog.MethodHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.classes[class]
	if !ok {
		return catalog.MethodHandle{}, false
	}
	invoke, ok := e.methods[method]
	if !ok {
		return catalog.MethodHandle{}, false
	}
	return catalog.MethodHandle{Name: method, Invoke: invoke}, true
}

// Catalog builds a catalog from the markers given at registration time, in registration
// order. Classes without any test are left out.
func (r *Registry) Catalog() *catalog.Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cat := catalog.New()
	for _, name := range r.order {
		e := r.classes[name]
		if len(e.tests) == 0 {
			continue
		}
		d := catalog.ClassDescriptor{
			Module: e.module,
			Type:   catalog.TypeHandle{Name: e.name, New: e.ctor},
		}
		for _, t := range e.tests {
			d.Tests = append(d.Tests, catalog.MethodHandle{Name: t, Invoke: e.methods[t]})
		}
		if e.preTest != "" {
			d.PreTest = &catalog.MethodHandle{Name: e.preTest, Invoke: e.methods[e.preTest]}
		}
		if e.postTest != "" {
			d.PostTest = &catalog.MethodHandle{Name: e.postTest, Invoke: e.methods[e.postTest]}
		}
		cat.Add(d)
	}
	return cat
}

// ClassBuilder registers the method table of one test container type.
type ClassBuilder[T any] struct {
	r     *Registry
	entry *classEntry
}

// Class registers a test container named name whose instances are created by ctor.
func Class[T any](r *Registry, name string, ctor func() (*T, error)) *ClassBuilder[T] {
	e := r.addClass(name, func() (interface{}, error) {
		instance, err := ctor()
		if err != nil {
			return nil, err
		}
		return instance, nil
	})
	return &ClassBuilder[T]{r: r, entry: e}
}

// Method adds a method to the class's method table without marking it.
func (b *ClassBuilder[T]) Method(name string, fn func(*T, context.Context, *restcall.Client) error) *ClassBuilder[T] {
	className := b.entry.name
	b.r.addMethod(b.entry, name, func(ctx context.Context, instance interface{}, rc *restcall.Client) error {
		t, ok := instance.(*T)
		if !ok {
			return fmt.Errorf("%s.%s called on unexpected instance type %T", className, name, instance)
		}
		return fn(t, ctx, rc)
	})
	return b
}

// Test adds a method and marks it as a test.
func (b *ClassBuilder[T]) Test(name string, fn func(*T, context.Context, *restcall.Client) error) *ClassBuilder[T] {
	b.Method(name, fn)
	b.r.mu.Lock()
	b.entry.tests = append(b.entry.tests, name)
	b.r.mu.Unlock()
	return b
}

// PreTest adds a method and marks it to run before each test. Only the first one counts.
func (b *ClassBuilder[T]) PreTest(name string, fn func(*T, context.Context, *restcall.Client) error) *ClassBuilder[T] {
	b.Method(name, fn)
	b.r.mu.Lock()
	if b.entry.preTest == "" {
		b.entry.preTest = name
	}
	b.r.mu.Unlock()
	return b
}

// PostTest adds a method and marks it to run after each test. Only the first one counts.
func (b *ClassBuilder[T]) PostTest(name string, fn func(*T, context.Context, *restcall.Client) error) *ClassBuilder[T] {
	b.Method(name, fn)
	b.r.mu.Lock()
	if b.entry.postTest == "" {
		b.entry.postTest = name
	}
	b.r.mu.Unlock()
	return b
}
