// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the result types of an analysis run. They are plain
// data, shared by the builder that fills them, the assessment that judges
// them and the renderers that print them.
//
// # Core Concepts
//
//   - Row: one entity reference made by a query root. Every root yields a
//     primary row for the entity it is built on and one row per join.
//
//   - Analysis: the rows of a run plus the integrity sets collected while
//     building them and the aggregate project counts.
//
// An entity that could not be found keeps its name, is not Resolved, shows
// UnknownFolder as its folder and has no coverage.
package model
