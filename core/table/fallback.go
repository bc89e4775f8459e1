package table

const (
	// FallbackName is the name given to the terminal raw-text table.
	FallbackName = "Extracted Text"

	// FallbackHeader is the only header of the raw-text table.
	FallbackHeader = "Content"

	// FallbackMaxChars bounds the text kept in the raw-text table.
	FallbackMaxChars = 1000

	truncationMarker = "..."
)

// Fallback wraps text into a single-cell table. Text longer than
// FallbackMaxChars characters is cut and suffixed with "...".
func Fallback(text string) Table {
	return Table{
		ID:      NewID(),
		Name:    FallbackName,
		Headers: []string{FallbackHeader},
		Data:    [][]string{{truncateChars(text, FallbackMaxChars)}},
	}
}

// truncateChars counts characters as runes so multi-byte text is never cut
// in the middle of a code point.
func truncateChars(text string, limit int) string {
	count := 0
	for i := range text {
		if count == limit {
			return text[:i] + truncationMarker
		}
		count++
	}
	return text
}
