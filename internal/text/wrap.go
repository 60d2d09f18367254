package text

import (
	"strings"
	"unicode/utf8"
)

// Wrap breaks text into lines that fit maxWidthPx when drawn at fontSizePx.
// The estimate uses an average glyph width of half the font size, which
// holds well for the proportional faces this package ships. Text that
// already fits is passed through untouched. The result always carries a
// trailing newline so stacked blocks concatenate cleanly.
func Wrap(text string, maxWidthPx, fontSizePx int) string {
	avgGlyph := float64(fontSizePx) * 0.5
	budget := 1
	if avgGlyph > 0 {
		if n := int(float64(maxWidthPx) / avgGlyph); n > budget {
			budget = n
		}
	}

	if utf8.RuneCountInString(text) <= budget {
		return text + "\n"
	}

	var out strings.Builder
	var line []string
	lineLen := 0
	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)
		// +1 for the joining space.
		if lineLen > 0 && lineLen+1+wordLen > budget {
			out.WriteString(strings.Join(line, " "))
			out.WriteByte('\n')
			line = line[:0]
			lineLen = 0
		}
		line = append(line, word)
		if lineLen > 0 {
			lineLen++
		}
		lineLen += wordLen
	}
	if len(line) > 0 {
		out.WriteString(strings.Join(line, " "))
		out.WriteByte('\n')
	}
	return out.String()
}
