// Package shared holds cross-cutting helpers that belong to no single
// domain package.
//
// The testutil subpackage provides the log capture handler the package
// tests use to assert on structured log output. Nothing under shared may
// import other internal packages; the dependency always points the other
// way.
package shared
