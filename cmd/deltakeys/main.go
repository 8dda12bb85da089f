/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command deltakeys generates typed field keys (registry.Field) for the struct types of a
// Go package, for use with delta.Get:
//
//	deltakeys --dir ./models --type Order --type Customer
//
// Flags may also be set through DELTAKEYS_* environment variables, e.g. DELTAKEYS_OUTPUT.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
