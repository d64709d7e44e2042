package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/wpplocal/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements ui.Component.
func (hv *HelpView) Name() string { return "Help" }

// FocusTarget implements ui.Component.
func (hv *HelpView) FocusTarget() tview.Primitive { return hv.TextView }

// Hints implements ui.Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

type helpEntry struct{ key, desc string }

var helpSections = []struct {
	title   string
	entries []helpEntry
}{
	{"Global Keys", []helpEntry{
		{"1 / 2 / 3", "Chats / Contacts / Profile"},
		{":", "Command mode"},
		{"/", "Search the current list"},
		{"?", "Help"},
		{"Esc", "Cancel / Go back"},
		{"q", "Quit"},
		{"Ctrl-C", "Quit immediately"},
	}},
	{"Chats", []helpEntry{
		{"Enter", "Open chat"},
		{"i", "Focus composer"},
		{"n", "New chat (pick a contact)"},
		{"d", "Show chat details"},
		{"j/k", "Move down / up"},
	}},
	{"Conversation", []helpEntry{
		{"Enter", "Send message (in composer)"},
		{"Esc", "Leave composer / close chat"},
	}},
	{"Contacts", []helpEntry{
		{"Enter", "Start or open chat"},
		{"a", "Add contact"},
	}},
	{"Profile", []helpEntry{
		{"e", "Edit your name"},
		{"a", "Edit about"},
		{"Enter / Esc", "Save / Cancel edit"},
	}},
	{"Commands (: mode)", []helpEntry{
		{":chats", "Show chats"},
		{":contacts", "Show contacts"},
		{":profile", "Show profile"},
		{":new <name>", "Add a contact"},
		{":chat <name>", "Open chat by name"},
		{":help / :h", "Show this help"},
		{":quit / :q", "Quit application"},
	}},
}

func (hv *HelpView) render() {
	kc := colorName(hv.theme.MenuKeyColor)

	var sb strings.Builder
	for _, s := range helpSections {
		fmt.Fprintf(&sb, "\n  [::b]%s[-:-:-]\n\n", s.title)
		for _, e := range s.entries {
			fmt.Fprintf(&sb, "  [%s]%-14s[-] %s\n", kc, e.key, e.desc)
		}
	}
	_, _ = fmt.Fprint(hv, sb.String())
}
