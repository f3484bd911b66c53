// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "strings"

// UnknownFolder is the folder shown for an entity that could not be resolved.
// It is a display value only; use Row.Resolved to test resolution.
const UnknownFolder = "Unknown"

// Role tells whether a row is a query root's primary entity or a join.
type Role string

const (
	RolePrimary Role = "primary"
	RoleJoin    Role = "join"
)

// Row is one entity reference made by a query root.
type Row struct {
	ContainerPath string `json:"container_path" yaml:"container_path"`
	RootName      string `json:"root_name" yaml:"root_name"`
	Role          Role   `json:"role" yaml:"role"`
	EntityName    string `json:"entity_name" yaml:"entity_name"`
	JoinName      string `json:"join_name,omitempty" yaml:"join_name,omitempty"`
	// Resolved is set when the entity was found in the registry.
	Resolved     bool        `json:"resolved" yaml:"resolved"`
	EntityFolder string      `json:"entity_folder" yaml:"entity_folder"`
	Coverage     *float64    `json:"description_coverage" yaml:"description_coverage"`
	Fields       *FieldStats `json:"fields,omitempty" yaml:"fields,omitempty"`
	ExtendsOn    []string    `json:"extends_on,omitempty" yaml:"extends_on,omitempty"`
}

// FieldStats counts the field blocks of an entity file.
type FieldStats struct {
	Described int `json:"described" yaml:"described"`
	Total     int `json:"total" yaml:"total"`
}

// ExtendsOnString joins ExtendsOn with spaces, the way it is shown in tables.
func (r Row) ExtendsOnString() string {
	return strings.Join(r.ExtendsOn, " ")
}

// ProjectStats are aggregate counts for one run.
type ProjectStats struct {
	Containers int `json:"containers" yaml:"containers"`
	Entities   int `json:"entities" yaml:"entities"`
	Roots      int `json:"roots" yaml:"roots"`
	Joins      int `json:"joins" yaml:"joins"`
}

// DescriptionStats count query roots and joins carrying a description.
type DescriptionStats struct {
	RootsWithDescription int `json:"roots_with_description" yaml:"roots_with_description"`
	TotalRoots           int `json:"total_roots" yaml:"total_roots"`
	JoinsWithDescription int `json:"joins_with_description" yaml:"joins_with_description"`
	TotalJoins           int `json:"total_joins" yaml:"total_joins"`
}

// RootPercent returns the share of described roots in percent; ok is false
// when there are no roots.
func (d DescriptionStats) RootPercent() (pct float64, ok bool) {
	return percent(d.RootsWithDescription, d.TotalRoots)
}

// JoinPercent returns the share of described joins in percent; ok is false
// when there are no joins.
func (d DescriptionStats) JoinPercent() (pct float64, ok bool) {
	return percent(d.JoinsWithDescription, d.TotalJoins)
}

func percent(n, total int) (float64, bool) {
	if total == 0 {
		return 0, false
	}
	return float64(n) / float64(total) * 100, true
}

// Analysis is everything one run learned about a project. It is rebuilt from
// scratch on every run.
type Analysis struct {
	RunID string `json:"run_id" yaml:"run_id"`
	Rows  []Row  `json:"rows" yaml:"rows"`

	// MultiDefinitionFiles are entity files declaring more than one entity.
	MultiDefinitionFiles []string `json:"multi_definition_files,omitempty" yaml:"multi_definition_files,omitempty"`
	// Shadowed are entity names defined in more than one file.
	Shadowed []string `json:"shadowed_entities,omitempty" yaml:"shadowed_entities,omitempty"`
	// MissingPrimaryKey are joined entities without a detectable primary key.
	MissingPrimaryKey []string `json:"missing_primary_key,omitempty" yaml:"missing_primary_key,omitempty"`
	// MissingRelationship are joins, as "root.join", without a relationship.
	MissingRelationship []string `json:"missing_relationship,omitempty" yaml:"missing_relationship,omitempty"`
	// SQLFunctionJoins are joins, as "root.join", calling a function in sql_on.
	SQLFunctionJoins []string `json:"sql_function_joins,omitempty" yaml:"sql_function_joins,omitempty"`
	// ExtendsCycles are circular extends chains, as "a -> b -> a".
	ExtendsCycles []string `json:"extends_cycles,omitempty" yaml:"extends_cycles,omitempty"`
	// UnknownExtends are extends references to undefined entities, as
	// "child extends parent".
	UnknownExtends []string `json:"unknown_extends,omitempty" yaml:"unknown_extends,omitempty"`

	Project      ProjectStats     `json:"project" yaml:"project"`
	Descriptions DescriptionStats `json:"descriptions" yaml:"descriptions"`
}

// Empty reports whether no query root or join was found anywhere. An empty
// analysis is a valid result, not an error.
func (a *Analysis) Empty() bool {
	return len(a.Rows) == 0
}

// EntityNames returns the unique entity names referenced by rows, in row order.
func (a *Analysis) EntityNames() []string {
	return uniqueNames(a.Rows, func(Row) bool { return true })
}

// UnresolvedEntities returns the unique names of entities that could not be
// found, in row order.
func (a *Analysis) UnresolvedEntities() []string {
	return uniqueNames(a.Rows, func(r Row) bool { return !r.Resolved })
}

func uniqueNames(rows []Row, keep func(Row) bool) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range rows {
		if !keep(r) {
			continue
		}
		if _, ok := seen[r.EntityName]; ok {
			continue
		}
		seen[r.EntityName] = struct{}{}
		names = append(names, r.EntityName)
	}
	return names
}
