// Package validator adapts github.com/santhosh-tekuri/jsonschema/v5 to the
// needs of schema-bound models.
//
// A Registry owns the named schemas a resolution may reference, the format
// checkers in force (date-time is always registered) and the draft used for
// schemas that do not declare one. It never performs IO: a reference to a
// document that was not added with AddSchema is reported in Result.Missing
// instead of being fetched.
//
// Registries are safe for concurrent use. Default is shared by every model
// kind that was not given its own registry; Fresh derives an empty registry
// with the same formats so unrelated resolutions never see each other's
// definitions.
package validator
