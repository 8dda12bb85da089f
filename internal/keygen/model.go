/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package keygen

import (
	"fmt"
	"go/types"
	"path"
	"sort"
	"strings"

	"github.com/suparena/delta/errors"
)

// RegistryPath is the import path of the package declaring registry.Field.
const RegistryPath = "github.com/suparena/delta/registry"

// File is the model of one generated file.
type File struct {
	// Package is the name of the package the file belongs to.
	Package string
	// PkgPath is the import path of that package.
	PkgPath string
	Imports []Import
	Types   []Type
}

// Import is one import of the generated file. Alias is empty when the package name
// matches the last element of the path.
type Import struct {
	Alias string
	Path  string
}

// Type is a struct type and its keyed fields, in declaration order.
type Type struct {
	Name   string
	Fields []Field
}

// Field is one exported field. Type is rendered relative to the generated file.
type Field struct {
	Name string
	Type string
}

// FromPackage builds the model for the named struct types of pkg, or for every exported
// non-generic struct type when no names are given. Types are sorted by name.
func FromPackage(pkg *types.Package, names ...string) (*File, error) {
	if pkg == nil {
		return nil, errors.NewValidationError("package", "package is nil")
	}

	selected, err := selectTypes(pkg, names)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, errors.NewValidationError("types", "no exported struct types in "+pkg.Path())
	}

	imports := newImportSet(pkg)
	file := &File{Package: pkg.Name(), PkgPath: pkg.Path()}
	for _, tn := range selected {
		st := tn.Type().Underlying().(*types.Struct)
		typ := Type{Name: tn.Name()}
		for _, v := range visibleFields(st) {
			if !expressible(v.Type(), pkg) {
				continue
			}
			typ.Fields = append(typ.Fields, Field{
				Name: v.Name(),
				Type: types.TypeString(v.Type(), imports.qualify),
			})
		}
		file.Types = append(file.Types, typ)
	}

	file.Imports = imports.list()
	return file, nil
}

func selectTypes(pkg *types.Package, names []string) ([]*types.TypeName, error) {
	scope := pkg.Scope()
	if len(names) == 0 {
		var out []*types.TypeName
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || tn.IsAlias() {
				continue
			}
			if isStruct(tn) && !isGeneric(tn) {
				out = append(out, tn)
			}
		}
		return out, nil
	}

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	out := make([]*types.TypeName, 0, len(sorted))
	for i, name := range sorted {
		if i > 0 && sorted[i-1] == name {
			continue
		}
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			return nil, errors.NewNotFoundError("type", pkg.Path()+"."+name)
		}
		if !isStruct(tn) {
			return nil, errors.NewValidationError(name, "not a struct type")
		}
		if isGeneric(tn) {
			return nil, errors.NewValidationError(name, "generic types are not supported")
		}
		out = append(out, tn)
	}
	return out, nil
}

func isStruct(tn *types.TypeName) bool {
	_, ok := tn.Type().Underlying().(*types.Struct)
	return ok
}

func isGeneric(tn *types.TypeName) bool {
	named, ok := tn.Type().(*types.Named)
	return ok && named.TypeParams().Len() > 0
}

type candidate struct {
	field *types.Var
	depth int
}

// visibleFields returns the exported, non-embedded fields of st reachable by a selector,
// in the order reflect.VisibleFields reports them. A name declared more than once at
// the shallowest depth is ambiguous and omitted. Names equal ignoring case keep the first.
func visibleFields(st *types.Struct) []*types.Var {
	var all []candidate
	collectFields(st, 0, map[*types.Named]bool{}, &all)

	shallowest := map[string]int{}
	count := map[string]int{}
	for _, c := range all {
		name := c.field.Name()
		d, seen := shallowest[name]
		switch {
		case !seen || c.depth < d:
			shallowest[name] = c.depth
			count[name] = 1
		case c.depth == d:
			count[name]++
		}
	}

	taken := map[string]bool{}
	var out []*types.Var
	for _, c := range all {
		name := c.field.Name()
		if c.depth != shallowest[name] || count[name] > 1 {
			continue
		}
		if c.field.Embedded() || !c.field.Exported() {
			continue
		}
		key := strings.ToLower(name)
		if taken[key] {
			continue
		}
		taken[key] = true
		out = append(out, c.field)
	}
	return out
}

func collectFields(st *types.Struct, depth int, visiting map[*types.Named]bool, out *[]candidate) {
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		*out = append(*out, candidate{field: f, depth: depth})
		if !f.Embedded() {
			continue
		}

		t := types.Unalias(f.Type())
		if p, ok := t.(*types.Pointer); ok {
			t = types.Unalias(p.Elem())
		}
		named, _ := t.(*types.Named)
		if named != nil {
			if visiting[named] {
				continue
			}
			visiting[named] = true
		}
		if inner, ok := t.Underlying().(*types.Struct); ok {
			collectFields(inner, depth+1, visiting, out)
		}
		if named != nil {
			delete(visiting, named)
		}
	}
}

// expressible reports whether t can be written in a file of package pkg.
func expressible(t types.Type, pkg *types.Package) bool {
	switch tt := types.Unalias(t).(type) {
	case *types.Basic:
		return tt.Kind() != types.UnsafePointer && tt.Kind() != types.Invalid
	case *types.Named:
		obj := tt.Obj()
		if obj.Pkg() != nil && obj.Pkg() != pkg && !obj.Exported() {
			return false
		}
		if args := tt.TypeArgs(); args != nil {
			for i := 0; i < args.Len(); i++ {
				if !expressible(args.At(i), pkg) {
					return false
				}
			}
		}
		return true
	case *types.Pointer:
		return expressible(tt.Elem(), pkg)
	case *types.Slice:
		return expressible(tt.Elem(), pkg)
	case *types.Array:
		return expressible(tt.Elem(), pkg)
	case *types.Chan:
		return expressible(tt.Elem(), pkg)
	case *types.Map:
		return expressible(tt.Key(), pkg) && expressible(tt.Elem(), pkg)
	case *types.Signature:
		return tupleExpressible(tt.Params(), pkg) && tupleExpressible(tt.Results(), pkg)
	case *types.Struct:
		for i := 0; i < tt.NumFields(); i++ {
			f := tt.Field(i)
			if !f.Exported() && f.Pkg() != pkg {
				return false
			}
			if !expressible(f.Type(), pkg) {
				return false
			}
		}
		return true
	case *types.Interface:
		for i := 0; i < tt.NumMethods(); i++ {
			m := tt.Method(i)
			if !m.Exported() && m.Pkg() != pkg {
				return false
			}
			if !expressible(m.Type(), pkg) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func tupleExpressible(t *types.Tuple, pkg *types.Package) bool {
	for i := 0; i < t.Len(); i++ {
		if !expressible(t.At(i).Type(), pkg) {
			return false
		}
	}
	return true
}

// importSet assigns a unique name to every package referenced by a field type.
// The registry package is always imported under its own name.
type importSet struct {
	self   *types.Package
	byPath map[string]string
	used   map[string]bool
}

func newImportSet(self *types.Package) *importSet {
	return &importSet{
		self:   self,
		byPath: map[string]string{RegistryPath: "registry"},
		used:   map[string]bool{"registry": true},
	}
}

func (s *importSet) qualify(p *types.Package) string {
	if p == s.self {
		return ""
	}
	if name, ok := s.byPath[p.Path()]; ok {
		return name
	}

	name := p.Name()
	for i := 2; s.used[name]; i++ {
		name = fmt.Sprintf("%s%d", p.Name(), i)
	}
	s.byPath[p.Path()] = name
	s.used[name] = true
	return name
}

func (s *importSet) list() []Import {
	out := make([]Import, 0, len(s.byPath))
	for p, name := range s.byPath {
		imp := Import{Path: p}
		if name != path.Base(p) {
			imp.Alias = name
		}
		out = append(out, imp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
