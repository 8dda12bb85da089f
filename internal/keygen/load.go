/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package keygen

import (
	"fmt"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/suparena/delta/errors"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedImports

// Load type-checks the package matched by patterns, resolved from dir, and builds the
// model for the named types (all exported struct types when names is empty).
// The patterns must match exactly one package.
func Load(dir string, patterns []string, names []string) (*File, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e.Error())
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %s", strings.Join(errs, "; "))
	}

	if len(pkgs) != 1 {
		return nil, errors.NewValidationError("patterns",
			fmt.Sprintf("%q matched %d packages, want exactly one", patterns, len(pkgs)))
	}
	return FromPackage(pkgs[0].Types, names...)
}
