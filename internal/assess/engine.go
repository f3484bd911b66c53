// Package assess evaluates an analysis against an ordered list of rules and
// produces severity-ranked findings.
//
// A Rule is an independent predicate+renderer: it looks at the shared Context
// and returns one finding or nil. Evaluate runs every rule in order and
// stable-sorts the results by severity, so findings of the same severity keep
// rule order. The engine has no notion of an overall verdict; callers decide
// how to present "no issues".
package assess

import (
	"sort"

	"github.com/specialistvlad/lookmlaudit/internal/integrity"
	"github.com/specialistvlad/lookmlaudit/internal/model"
)

// Thresholds tune the size-based rules.
type Thresholds struct {
	MaxRoots    int
	MaxEntities int
}

// DefaultThresholds are the limits above which a project is considered large.
func DefaultThresholds() Thresholds {
	return Thresholds{MaxRoots: 75, MaxEntities: 150}
}

// Context is the read-only input shared by all rules.
type Context struct {
	Analysis   *model.Analysis
	Thresholds Thresholds

	// Unresolved are the entity names missing from the registry.
	Unresolved []string
	// NamingViolations are resolved entity names that are not snake_case.
	NamingViolations []string
	// EntityNames are all entity names referenced by rows.
	EntityNames []string
}

// NewContext derives the rule inputs from an analysis.
func NewContext(a *model.Analysis, t Thresholds) *Context {
	return &Context{
		Analysis:         a,
		Thresholds:       t,
		Unresolved:       a.UnresolvedEntities(),
		NamingViolations: integrity.NamingViolations(a.Rows),
		EntityNames:      a.EntityNames(),
	}
}

// Rule yields zero or one finding.
type Rule struct {
	ID       string
	Severity Severity
	Check    func(c *Context) *Finding
}

// Evaluate runs rules in order and returns their findings sorted by severity.
// The finding's RuleID and Severity always come from the rule.
func Evaluate(c *Context, rules []Rule) []Finding {
	var findings []Finding
	for _, r := range rules {
		f := r.Check(c)
		if f == nil {
			continue
		}
		f.RuleID = r.ID
		f.Severity = r.Severity
		findings = append(findings, *f)
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Severity.Rank() < findings[j].Severity.Rank()
	})
	return findings
}

// Without returns rules minus the ones whose ID is listed.
func Without(rules []Rule, ids ...string) []Rule {
	if len(ids) == 0 {
		return rules
	}
	skip := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		skip[id] = struct{}{}
	}
	kept := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if _, ok := skip[r.ID]; !ok {
			kept = append(kept, r)
		}
	}
	return kept
}
