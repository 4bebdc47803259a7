// Package recipe defines the data model for declarative build recipes.
//
// A recipe names the source material of a package, the build script that
// produces its files, its dependency requirements, and the tests run
// against the packaged result. The two variant-rich concepts, [Source] and
// [ScriptContent], are modeled as closed unions so that every consumer
// handles all forms explicitly.
//
// This package deliberately contains no syntax: recipes are constructed by
// callers (the CLI decodes a plain document 1:1 into these types).
package recipe
