/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

type typePair struct {
	source reflect.Type
	target reflect.Type
}

// Registry owns the mapping policies, one per (source, target) type pair.
// A Registry is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	policies map[typePair]*Policy
	logger   *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used by the registry and by patches that consult it.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		policies: make(map[typePair]*Policy),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the policy for the type pair, creating it if necessary.
// Pointer types resolve to their element types.
func (r *Registry) Policy(source, target reflect.Type) *Policy {
	key := typePair{source: elem(source), target: elem(target)}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.policies[key]; ok {
		return p
	}

	p := newPolicy(key.source, key.target)
	r.policies[key] = p
	r.logger.Debug("mapping policy created",
		zap.Stringer("source", key.source),
		zap.Stringer("target", key.target))
	return p
}

// Lookup returns the policy for the type pair without creating one.
// A nil registry has no policies.
func (r *Registry) Lookup(source, target reflect.Type) (*Policy, bool) {
	if r == nil {
		return nil, false
	}
	key := typePair{source: elem(source), target: elem(target)}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.policies[key]
	return p, ok
}

// Remove drops the policy for the type pair and reports whether one existed.
func (r *Registry) Remove(source, target reflect.Type) bool {
	key := typePair{source: elem(source), target: elem(target)}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.policies[key]; !ok {
		return false
	}
	delete(r.policies, key)
	return true
}

// Clear drops every policy.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies = make(map[typePair]*Policy)
}

// Len returns the number of policies.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.policies)
}

// Logger returns the registry logger. A nil registry yields a no-op logger.
func (r *Registry) Logger() *zap.Logger {
	if r == nil {
		return zap.NewNop()
	}
	return r.logger
}

// Remove drops the policy for (S, D).
func Remove[S, D any](r *Registry) bool {
	return r.Remove(typeOf[S](), typeOf[D]())
}

func elem(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
