// SPDX-License-Identifier: MPL-2.0

// Package cuetoolchain binds the CUE evaluator to the compiler.Toolchain
// contract. Analysis compiles the script inside a scope assembled from the
// classpath, unifies it with the embedded #Plugin template, and validates
// it to a fully concrete value; generation exports the evaluated plugin
// object (and one object per declared component) as in-memory artifacts.
package cuetoolchain
