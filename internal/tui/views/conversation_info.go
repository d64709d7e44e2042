package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/wpplocal/internal/tui/ui"
	"github.com/rivo/tview"
)

// ChatDetails is everything the details page shows about one chat.
type ChatDetails struct {
	ID           string
	Name         string
	IsGroup      bool
	Participants []string
	Unread       int
	LastActive   string
	LastMessage  string
}

// ConversationInfo displays detailed information about a conversation.
type ConversationInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewConversationInfo creates a new conversation info view.
func NewConversationInfo(theme *ui.Theme) *ConversationInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Chat Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &ConversationInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements ui.Component.
func (ci *ConversationInfo) Name() string { return "Details" }

// FocusTarget implements ui.Component.
func (ci *ConversationInfo) FocusTarget() tview.Primitive { return ci.TextView }

// Hints implements ui.Component.
func (ci *ConversationInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// Update renders conversation details.
func (ci *ConversationInfo) Update(d *ChatDetails) {
	ci.Clear()
	if d == nil {
		ci.SetTitle(" Chat Details ")
		return
	}

	fg := colorName(ci.theme.FgColor)
	ct := colorName(ci.theme.CounterColor)

	chatType := "Direct Message"
	if d.IsGroup {
		chatType = "Group"
	}
	lastActive := d.LastActive
	if lastActive == "" {
		lastActive = "-"
	}
	last := d.LastMessage
	if last == "" {
		last = noPreview
	}
	participants := "-"
	if len(d.Participants) > 0 {
		participants = strings.Join(d.Participants, ", ")
	}

	field := func(label, value string) string {
		return fmt.Sprintf(" [%s::b]%-14s[-:-:-] [%s]%s[-]\n", fg, label+":", ct, sanitize(oneLine(value)))
	}
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(field("Name", d.Name))
	sb.WriteString(field("ID", d.ID))
	sb.WriteString(field("Type", chatType))
	sb.WriteString(field("Participants", participants))
	sb.WriteString(field("Unread", fmt.Sprint(d.Unread)))
	sb.WriteString(field("Last Active", lastActive))
	sb.WriteString(field("Last Message", last))

	_, _ = fmt.Fprint(ci, sb.String())
	ci.SetTitle(fmt.Sprintf(" %s Details ", tview.Escape(oneLine(d.Name))))
}
