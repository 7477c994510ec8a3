package index

import "unicode/utf8"

const (
	// SnippetLength is the number of characters kept from a record's text.
	SnippetLength = 500
	// Ellipsis marks a truncated snippet.
	Ellipsis = "..."
)

// Snippet returns the first SnippetLength characters of text, followed by
// Ellipsis when text is longer. Characters are runes, not bytes.
func Snippet(text string) string {
	if utf8.RuneCountInString(text) <= SnippetLength {
		return text
	}
	n := 0
	for i := range text {
		if n == SnippetLength {
			return text[:i] + Ellipsis
		}
		n++
	}
	return text
}
