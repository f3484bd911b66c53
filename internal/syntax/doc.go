// Package syntax is the line- and brace-oriented scanner for LookML-style
// files. It does not implement a grammar; it finds `keyword: name { ... }`
// occurrences, returns their balanced bodies, and detects a handful of
// `key: value` tokens inside those bodies.
//
// Known limits: `#` and braces inside string literals are treated as
// comments and structure. Token detectors are substring/regex heuristics.
package syntax
