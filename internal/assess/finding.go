package assess

import (
	"fmt"
	"strings"
)

// Severity ranks findings. Lower ranks sort first.
type Severity string

const (
	SeverityCritical       Severity = "Critical"
	SeverityRecommendation Severity = "Recommendation"
	SeverityPositive       Severity = "Positive"
)

// Rank returns the sort position of the severity.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityRecommendation:
		return 1
	case SeverityPositive:
		return 2
	default:
		return 3
	}
}

// ParseSeverity accepts a severity name in any case.
func ParseSeverity(s string) (Severity, error) {
	for _, sev := range []Severity{SeverityCritical, SeverityRecommendation, SeverityPositive} {
		if strings.EqualFold(s, string(sev)) {
			return sev, nil
		}
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// Finding is one assessment result.
type Finding struct {
	RuleID   string   `json:"rule_id" yaml:"rule_id"`
	Severity Severity `json:"severity" yaml:"severity"`
	Title    string   `json:"title" yaml:"title"`
	Detail   string   `json:"detail" yaml:"detail"`
	// Items are the affected identifiers, if any.
	Items []string `json:"items,omitempty" yaml:"items,omitempty"`
}

// Render returns the detail followed by one bulleted line per item.
func (f Finding) Render() string {
	if len(f.Items) == 0 {
		return f.Detail
	}
	var b strings.Builder
	b.WriteString(f.Detail)
	for _, item := range f.Items {
		b.WriteString("\n  - ")
		b.WriteString(item)
	}
	return b.String()
}

// HasIssues reports whether any finding is Critical or a Recommendation.
func HasIssues(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity != SeverityPositive {
			return true
		}
	}
	return false
}

// AtLeast reports whether any finding is at or above the given severity.
func AtLeast(findings []Finding, threshold Severity) bool {
	for _, f := range findings {
		if f.Severity.Rank() <= threshold.Rank() {
			return true
		}
	}
	return false
}
