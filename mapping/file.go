/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"fmt"
	"os"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/suparena/delta/errors"
	"github.com/suparena/delta/registry"
)

// File is a YAML document describing mapping policies.
type File struct {
	Version  string        `yaml:"version"`
	Mappings []TypeMapping `yaml:"mappings"`
}

// TypeMapping configures the policy of one (source, target) pair. Type names are those
// registered with registry.RegisterType.
type TypeMapping struct {
	Source         string                 `yaml:"source"`
	Target         string                 `yaml:"target"`
	IgnoreUnmapped bool                   `yaml:"ignoreUnmapped,omitempty"`
	Fields         map[string]FieldTarget `yaml:"fields,omitempty"`
	Ignore         []string               `yaml:"ignore,omitempty"`
}

// FieldTarget is the destination of one mapped field. In YAML it is either a bare
// target name or a {target, transform} mapping.
type FieldTarget struct {
	Target    string `yaml:"target"`
	Transform string `yaml:"transform,omitempty"`
}

// UnmarshalYAML accepts the shorthand scalar form.
func (f *FieldTarget) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&f.Target)
	case yaml.MappingNode:
		type plain FieldTarget
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*f = FieldTarget(p)
		return nil
	default:
		return fmt.Errorf("line %d: field target must be a name or a mapping", node.Line)
	}
}

// LoadFile reads and parses a mapping file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses a mapping document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}
	if f.Version == "" {
		f.Version = "1"
	}
	return &f, nil
}

type resolvedMapping struct {
	source, target reflect.Type
	tm             TypeMapping
	transforms     map[string]Transform
}

// Apply configures reg from the file. Every type, field and transform name is checked
// before the registry is touched, so a file with errors changes nothing.
// transforms may be nil when the file names none.
func (f *File) Apply(reg *Registry, transforms *Transforms) error {
	resolved := make([]resolvedMapping, 0, len(f.Mappings))
	for i, tm := range f.Mappings {
		rm, err := resolve(tm, transforms)
		if err != nil {
			return fmt.Errorf("mapping %d (%s -> %s): %w", i, tm.Source, tm.Target, err)
		}
		resolved = append(resolved, rm)
	}

	for _, rm := range resolved {
		p := reg.Policy(rm.source, rm.target)
		for _, src := range sortedNames(rm.tm.Fields) {
			p.MapField(src, rm.tm.Fields[src].Target, rm.transforms[src])
		}
		for _, name := range rm.tm.Ignore {
			p.IgnoreField(name)
		}
		if rm.tm.IgnoreUnmapped {
			p.IgnoreUnmapped()
		}
	}
	return nil
}

func resolve(tm TypeMapping, transforms *Transforms) (resolvedMapping, error) {
	rm := resolvedMapping{tm: tm, transforms: map[string]Transform{}}

	var err error
	if rm.source, err = registry.LookupType(tm.Source); err != nil {
		return rm, err
	}
	if rm.target, err = registry.LookupType(tm.Target); err != nil {
		return rm, err
	}

	sourceFields := registry.Fields(rm.source)
	targetFields := registry.Fields(rm.target)

	for _, src := range sortedNames(tm.Fields) {
		if _, ok := sourceFields.Lookup(src); !ok {
			return rm, errors.NewUnknownFieldError(tm.Source, src)
		}
		ft := tm.Fields[src]
		if ft.Target != "" {
			if _, ok := targetFields.LookupName(ft.Target); !ok {
				return rm, errors.NewUnknownFieldError(tm.Target, ft.Target)
			}
		}
		if ft.Transform == "" {
			continue
		}
		if transforms == nil {
			return rm, errors.NewNotFoundError("transform", ft.Transform)
		}
		fn, err := transforms.Get(ft.Transform)
		if err != nil {
			return rm, err
		}
		rm.transforms[src] = fn
	}

	for _, name := range tm.Ignore {
		if _, ok := sourceFields.Lookup(name); !ok {
			return rm, errors.NewUnknownFieldError(tm.Source, name)
		}
	}
	return rm, nil
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
