package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// ProfileData holds the header summary of the open profile.
type ProfileData struct {
	Profile      string
	Username     string
	Status       string
	ChatCount    int
	ContactCount int
	UnreadCount  int
}

// ProfileInfo displays profile metadata in the header.
type ProfileInfo struct {
	*tview.TextView
	theme *Theme
}

// NewProfileInfo creates a new profile info panel.
func NewProfileInfo(theme *Theme) *ProfileInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ProfileInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the profile summary. nil shows a loading placeholder.
func (pi *ProfileInfo) Update(data *ProfileData) {
	pi.Clear()

	fg := colorName(pi.theme.MutedColor)
	val := colorName(pi.theme.CounterColor)
	if data == nil {
		_, _ = fmt.Fprintf(pi, "[%s]Loading...[-]", fg)
		return
	}

	_, _ = fmt.Fprintf(pi,
		"[%s::b]Profile:[-:-:-]  [%s]%s[-]\n"+
			"[%s::b]User:[-:-:-]     [%s]%s[-]\n"+
			"[%s::b]About:[-:-:-]    [%s]%s[-]\n"+
			"[%s::b]Chats:[-:-:-]    [%s]%d[-]\n"+
			"[%s::b]Contacts:[-:-:-] [%s]%d[-]\n"+
			"[%s::b]Unread:[-:-:-]   [%s]%d[-]",
		fg, val, tview.Escape(data.Profile),
		fg, val, tview.Escape(data.Username),
		fg, val, tview.Escape(data.Status),
		fg, val, data.ChatCount,
		fg, val, data.ContactCount,
		fg, val, data.UnreadCount,
	)
}
