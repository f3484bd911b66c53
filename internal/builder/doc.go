// Package builder turns container (model) files into the relation rows of a
// project.
//
// For every query root (explore) it emits one primary row and one row per
// nested join, resolving entity names through the registry. While doing so it
// runs the join-level integrity checks and collects the sets the assessment
// needs: entities joined without a primary key, joins without a relationship
// and joins calling a function in their condition.
//
// The builder never fails because of a single file. Unreadable containers or
// entities are logged and skipped; only a missing container directory or a
// cancelled context stops it.
package builder
