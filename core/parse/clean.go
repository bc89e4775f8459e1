package parse

import (
	"regexp"
	"strings"
)

var (
	// fencePattern matches Markdown code-fence markers with an optional
	// language tag (```json, ```JSON, ```).
	fencePattern = regexp.MustCompile("```[A-Za-z0-9_-]*")

	// controlCharPattern matches C0 and C1 control characters. Models emit
	// them inside string values, where they break strict JSON decoding.
	controlCharPattern = regexp.MustCompile(`[\x{0000}-\x{001F}\x{007F}-\x{009F}]`)
)

// StripFences removes every Markdown code-fence marker from text, keeping
// the fenced content.
func StripFences(text string) string {
	return fencePattern.ReplaceAllString(text, "")
}

// StripControlChars removes U+0000–U+001F and U+007F–U+009F from text.
func StripControlChars(text string) string {
	return controlCharPattern.ReplaceAllString(text, "")
}

// splitLines splits text into trimmed lines, dropping blank ones.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitTrim splits s on sep and trims every field.
func splitTrim(s, sep string) []string {
	fields := strings.Split(s, sep)
	for i, field := range fields {
		fields[i] = strings.TrimSpace(field)
	}
	return fields
}

// matchingBracket returns the index of the bracket closing the one at
// content[start], or -1. Brackets inside JSON string literals are ignored.
func matchingBracket(content string, start int) int {
	if start < 0 || start >= len(content) {
		return -1
	}

	open := content[start]
	var closing byte
	switch open {
	case '[':
		closing = ']'
	case '{':
		closing = '}'
	default:
		return -1
	}

	depth := 0
	inString := false
	escape := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if escape {
			escape = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
