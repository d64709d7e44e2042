package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/wpplocal/internal/tui/ui"
	"github.com/rivo/tview"
)

// Sidebar is the navigation rail: the user's avatar on top and one numbered
// entry per view, the active one highlighted.
type Sidebar struct {
	*tview.TextView
	theme *ui.Theme
	items []string
}

// NewSidebar creates a rail listing items in order; entry N is reached with key N.
func NewSidebar(theme *ui.Theme, items []string) *Sidebar {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	tv.SetBackgroundColor(theme.PanelColor)
	tv.SetBorderPadding(1, 0, 1, 1)
	return &Sidebar{TextView: tv, theme: theme, items: items}
}

// Update redraws the rail for the given user name and active item.
func (s *Sidebar) Update(userName, active string) {
	s.Clear()

	var sb strings.Builder
	if userName != "" {
		color := colorName(AvatarColor(userName))
		fmt.Fprintf(&sb, "[white:%s:b] %-2s [-:-:-]\n", color, Initials(userName))
		fmt.Fprintf(&sb, "[%s]%s[-]\n\n", colorName(s.theme.FgColor), sanitize(oneLine(truncate(userName, 10))))
	} else {
		sb.WriteString("\n\n\n")
	}

	key := colorName(s.theme.NumericKeyColor)
	for i, item := range s.items {
		if strings.EqualFold(item, active) {
			fmt.Fprintf(&sb, "[%s]%d[-] [black:%s:b] %s [-:-:-]\n",
				key, i+1, colorName(s.theme.AccentColor), item)
		} else {
			fmt.Fprintf(&sb, "[%s]%d[-]  [%s]%s[-]\n",
				key, i+1, colorName(s.theme.MutedColor), item)
		}
	}
	_, _ = fmt.Fprint(s, sb.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
