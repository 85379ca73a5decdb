// Package schemaprops computes the flattened property set of a schema.
//
// The property set is what a model kind exposes: the union of every
// `properties` object reachable from the root through `$ref` and composition
// keywords. A schema without `properties` contributes the branches of its
// `anyOf`, else its `allOf`, else (at the root only) its `oneOf`; the other
// keywords are ignored. Later branches are deep-merged onto earlier ones, so
// a property declared by two branches ends up with the keys of both
// declarations.
//
// This package is pure: no IO, and the input schema is never modified.
// It is not a validator; see package validator for that.
package schemaprops
