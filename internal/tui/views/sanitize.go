package views

import (
	"strings"

	"github.com/rivo/tview"
)

// sanitize drops codepoints tcell renders badly and escapes tview style
// tags. Emoji modifiers and joiners are removed, so a toned or joined emoji
// degrades to its base glyphs. Newlines are kept.
func sanitize(s string) string {
	return tview.Escape(strings.Map(func(r rune) rune {
		switch {
		case r >= 0x1F3FB && r <= 0x1F3FF: // skin tone modifiers
			return -1
		case r == 0x200D: // zero width joiner
			return -1
		case r >= 0xFE00 && r <= 0xFE0F, r >= 0xE0100 && r <= 0xE01EF: // variation selectors
			return -1
		case r == '\t':
			return ' '
		case r < 0x20 && r != '\n':
			return -1
		}
		return r
	}, s))
}

// oneLine flattens s for single-line cells.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
