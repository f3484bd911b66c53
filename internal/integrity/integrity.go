// Package integrity holds the structural checks run against query roots,
// joins and entity fields.
//
// All of them are approximate. They look for tokens, not meaning:
//
//   - MarksPrimaryKey finds the marker text in a field body; a marker inside
//     a string or a differently spaced marker is missed.
//   - MissingRelationship only checks that a `relationship:` key is present.
//   - SQLOnCallsFunction flags any identifier directly followed by `(` in the
//     join condition, so `IN (` style syntax without a space is also flagged.
//   - IsSnakeCase is a plain character-class test.
package integrity

import (
	"regexp"
	"strings"

	"github.com/specialistvlad/lookmlaudit/internal/syntax"
)

// DefaultPrimaryKeyMarker is the field annotation declaring uniqueness.
const DefaultPrimaryKeyMarker = "primary_key: yes"

var (
	relationshipPattern = regexp.MustCompile(`\brelationship\s*:`)
	functionCallPattern = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*\(`)
	snakeCasePattern    = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// MarksPrimaryKey reports whether a field body contains the primary-key marker.
func MarksPrimaryKey(fieldBody, marker string) bool {
	if marker == "" {
		marker = DefaultPrimaryKeyMarker
	}
	return strings.Contains(fieldBody, marker)
}

// MissingRelationship reports whether a join body lacks a `relationship:` key.
func MissingRelationship(joinBody string) bool {
	return !relationshipPattern.MatchString(joinBody)
}

// SQLOnCallsFunction reports whether the join's `sql_on: ... ;;` clause
// contains an identifier immediately followed by an opening parenthesis.
// A join without a sql_on clause is never flagged.
func SQLOnCallsFunction(joinBody string) bool {
	clause, ok := syntax.SQLOn(joinBody)
	if !ok {
		return false
	}
	return functionCallPattern.MatchString(clause)
}

// IsSnakeCase reports whether name consists only of lower-case letters,
// digits and underscores.
func IsSnakeCase(name string) bool {
	return snakeCasePattern.MatchString(name)
}
