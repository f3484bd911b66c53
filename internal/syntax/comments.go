package syntax

import "regexp"

var commentPattern = regexp.MustCompile(`#[^\n]*`)

// StripComments removes everything from `#` to the end of each line. Newlines
// are kept, so line numbers survive.
func StripComments(text string) string {
	return commentPattern.ReplaceAllString(text, "")
}
