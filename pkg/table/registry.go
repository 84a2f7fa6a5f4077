package table

import (
	"reflect"

	"github.com/puzpuzpuz/xsync/v3"
)

// Registry holds at most one instance per concrete type. It replaces
// process-wide singletons: tables built through the same Registry share one
// handler, and so one cache, per type.
type Registry struct {
	instances *xsync.MapOf[reflect.Type, any]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{instances: xsync.NewMapOf[reflect.Type, any]()}
}

// Instance returns the registry's instance of T, calling build to create it
// on first use. Concurrent first calls build exactly once.
func Instance[T any](r *Registry, build func() T) T {
	key := reflect.TypeOf((*T)(nil)).Elem()
	v, _ := r.instances.LoadOrCompute(key, func() any { return build() })
	return v.(T)
}

// Len returns the number of instances held.
func (r *Registry) Len() int { return r.instances.Size() }

// Reset drops every instance. The next Instance call builds afresh.
func (r *Registry) Reset() { r.instances.Clear() }
