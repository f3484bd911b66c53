// Package registry maps entity (view) names to the files that define them.
//
// The Registry is built by walking the entity directory once per analysis
// run. Every file matching the configured patterns is read, its line-anchored
// `view: name` headers are collected, and each name is recorded together with
// the file's folder tag (the first directory under the entity root) and path.
//
// A name may be defined by several files. All locations are kept in walk
// order; Resolve returns the last one, and Shadowed lists the names that have
// more than one so the assessment can report them. Files declaring more than
// one entity are listed separately.
//
// The same walk resolves `extends: [...]` lists inside each entity block.
package registry
