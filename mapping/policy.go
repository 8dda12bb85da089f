/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/suparena/delta/registry"
)

// Transform converts a source field value into the value written to the target field.
type Transform func(any) (any, error)

// Rule is the resolved destination of one source field.
type Rule struct {
	// Target is the target field name, matched case-insensitively by the patcher.
	Target string
	// Transform is applied to the value before it is written. Nil means none.
	Transform Transform
}

// Policy describes how the fields of one source type are patched onto one target type.
// All field names are case-insensitive. Source names may also be given by json alias;
// they are stored under the Go name of the source field.
type Policy struct {
	source reflect.Type
	target reflect.Type

	mu             sync.RWMutex
	ignored        map[string]struct{}
	mapped         map[string]Rule
	ignoreUnmapped bool
}

func newPolicy(source, target reflect.Type) *Policy {
	return &Policy{
		source:  source,
		target:  target,
		ignored: make(map[string]struct{}),
		mapped:  make(map[string]Rule),
	}
}

// Source returns the source type the policy applies to.
func (p *Policy) Source() reflect.Type {
	return p.source
}

// Target returns the target type the policy applies to.
func (p *Policy) Target() reflect.Type {
	return p.target
}

// MapField sends the source field to the target field, optionally through transform.
// A prior mapping for the same source field is replaced. An empty target keeps the
// source name, which is how a transform is attached without renaming.
func (p *Policy) MapField(source, target string, transform Transform) *Policy {
	if target == "" {
		target = source
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.mapped[p.key(source)] = Rule{Target: target, Transform: transform}
	return p
}

// IgnoreField excludes the source field from patching, whatever else is configured for it.
func (p *Policy) IgnoreField(source string) *Policy {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ignored[p.key(source)] = struct{}{}
	return p
}

// IgnoreUnmapped restricts patching to explicitly mapped fields.
func (p *Policy) IgnoreUnmapped() *Policy {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ignoreUnmapped = true
	return p
}

// Resolve returns the rule for a source field, or false when the field must not be written.
// Ignored fields are dropped even when mapped; with IgnoreUnmapped set, fields without a
// mapping are dropped; otherwise the field keeps its name and value.
func (p *Policy) Resolve(source string) (Rule, bool) {
	key := p.key(source)

	p.mu.RLock()
	defer p.mu.RUnlock()

	if _, ok := p.ignored[key]; ok {
		return Rule{}, false
	}
	if rule, ok := p.mapped[key]; ok {
		return rule, true
	}
	if p.ignoreUnmapped {
		return Rule{}, false
	}
	return Rule{Target: source}, true
}

// key is the lower-case Go name of the source field called name. Names the source type
// does not declare are kept as given.
func (p *Policy) key(name string) string {
	if d, ok := registry.Fields(p.source).Lookup(name); ok {
		name = d.Name
	}
	return strings.ToLower(name)
}

// Ignored returns the ignored source names (lower case, sorted).
func (p *Policy) Ignored() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]string, 0, len(p.ignored))
	for k := range p.ignored {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Mapped returns a copy of the explicit mappings keyed by lower-case source name.
func (p *Policy) Mapped() map[string]Rule {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]Rule, len(p.mapped))
	for k, v := range p.mapped {
		out[k] = v
	}
	return out
}

// IgnoresUnmapped reports whether IgnoreUnmapped was called.
func (p *Policy) IgnoresUnmapped() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ignoreUnmapped
}
