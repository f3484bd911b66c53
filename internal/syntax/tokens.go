package syntax

import (
	"regexp"
	"strings"
	"sync"
)

var (
	overridePattern = regexp.MustCompile(`\b(?:from|view_name)\s*:\s*([a-zA-Z0-9_]+)\b`)
	extendsPattern  = regexp.MustCompile(`\bextends\s*:\s*\[([^\]]*)\]`)
	sqlOnPattern    = regexp.MustCompile(`(?s)\bsql_on\s*:(.*?);;`)
)

var headerPatterns sync.Map // keyword -> *regexp.Regexp

// HeaderNames returns the names declared by line-anchored `keyword: name`
// headers, in document order. It is not brace-aware: it only looks at the
// start of each line, which is enough to name the entities in a file.
func HeaderNames(text, keyword string) []string {
	re, ok := headerPatterns.Load(keyword)
	if !ok {
		re, _ = headerPatterns.LoadOrStore(keyword,
			regexp.MustCompile(`(?m)^\s*`+regexp.QuoteMeta(keyword)+`:\s*([a-zA-Z0-9_]+)`))
	}
	var names []string
	for _, m := range re.(*regexp.Regexp).FindAllStringSubmatch(text, -1) {
		names = append(names, m[1])
	}
	return names
}

// Override returns the entity named by `from:` or `view_name:` in body.
func Override(body string) (string, bool) {
	m := overridePattern.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Extends returns the identifiers listed in `extends: [a, b]`, trimmed, in
// order. ok is false when body has no extends list.
func Extends(body string) (names []string, ok bool) {
	m := extendsPattern.FindStringSubmatch(body)
	if m == nil {
		return nil, false
	}
	names = []string{}
	for _, part := range strings.Split(m[1], ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names, true
}

// descriptionToken is matched as a plain substring, so `short_description:`
// counts and `description :` does not.
const descriptionToken = "description:"

// HasDescription reports whether descriptionToken appears anywhere in body.
// It is not scoped to the block's own level.
func HasDescription(body string) bool {
	return strings.Contains(body, descriptionToken)
}

// SQLOn returns the text of the first `sql_on: ... ;;` clause in body.
func SQLOn(body string) (string, bool) {
	m := sqlOnPattern.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}
