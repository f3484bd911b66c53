// Package report renders an analysis and its findings for people or tools.
//
// The text format mirrors what a reviewer reads top to bottom: an "All good"
// banner when nothing needs attention, otherwise observations, positive
// findings and recommendations, optionally followed by the relation table.
// The json and yaml formats carry the same content as structured documents.
package report
