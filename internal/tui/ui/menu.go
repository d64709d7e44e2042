package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Menu displays keyboard shortcut hints in columns of at most rows entries.
type Menu struct {
	*tview.TextView
	theme *Theme
	rows  int
}

// NewMenu creates a new menu hint panel.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)

	return &Menu{
		TextView: tv,
		theme:    theme,
		rows:     5,
	}
}

// Update renders the hints.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()

	keyColor := colorName(m.theme.MenuKeyColor)
	numColor := colorName(m.theme.NumericKeyColor)

	cols := (len(hints) + m.rows - 1) / m.rows
	for r := 0; r < m.rows; r++ {
		for c := 0; c < cols; c++ {
			i := c*m.rows + r
			if i >= len(hints) {
				continue
			}
			h := hints[i]
			kc := keyColor
			if h.Numeric {
				kc = numColor
			}
			_, _ = fmt.Fprintf(m, "[%s::b]%-8s[-:-:-]%-14s", kc, "<"+h.Key+">", h.Description)
		}
		_, _ = fmt.Fprint(m, "\n")
	}
}
