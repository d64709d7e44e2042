package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/wpplocal/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationWindow shows the open chat: a header, the message bubbles and
// a composer. With no chat open it shows a placeholder.
type ConversationWindow struct {
	*tview.Pages
	theme    *ui.Theme
	header   *tview.TextView
	messages *tview.TextView
	composer *tview.InputField
	chatName string
	onSend   func(text string)
	onBack   func()
}

// NewConversationWindow creates the conversation window.
func NewConversationWindow(theme *ui.Theme) *ConversationWindow {
	header := tview.NewTextView().
		SetDynamicColors(true)
	header.SetBackgroundColor(theme.PanelColor)

	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)

	composer := tview.NewInputField().
		SetPlaceholder("Type a message").
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBorder(true)
	composer.SetBorderColor(theme.BorderColor)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetFieldBackgroundColor(theme.PanelColor)
	composer.SetFieldTextColor(theme.FgColor)
	composer.SetPlaceholderTextColor(theme.MutedColor)
	composer.SetLabelColor(theme.AccentColor)

	thread := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 2, 0, false).
		AddItem(messages, 0, 1, false).
		AddItem(composer, 3, 0, true)
	thread.SetBorder(true)
	thread.SetBorderColor(theme.BorderColor)
	thread.SetBackgroundColor(theme.BgColor)

	placeholder := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	placeholder.SetBorder(true)
	placeholder.SetBorderColor(theme.BorderColor)
	placeholder.SetBackgroundColor(theme.BgColor)
	_, _ = fmt.Fprintf(placeholder, "\n\n\n[%s::b]WhatsApp Web[-:-:-]\n\n%sSelect a chat to start messaging[-]",
		colorName(theme.FgColor), ui.ColorTag(theme.MutedColor))

	pages := tview.NewPages().
		AddPage("placeholder", placeholder, true, true).
		AddPage("thread", thread, true, false)

	cw := &ConversationWindow{
		Pages:    pages,
		theme:    theme,
		header:   header,
		messages: messages,
		composer: composer,
	}

	composer.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			text := strings.TrimSpace(composer.GetText())
			if text == "" {
				return
			}
			composer.SetText("")
			if cw.onSend != nil {
				cw.onSend(text)
			}
		case tcell.KeyEscape:
			if cw.onBack != nil {
				cw.onBack()
			}
		}
	})
	return cw
}

// Name implements ui.Component.
func (cw *ConversationWindow) Name() string {
	if cw.chatName != "" {
		return cw.chatName
	}
	return "Messages"
}

// FocusTarget implements ui.Component.
func (cw *ConversationWindow) FocusTarget() tview.Primitive { return cw.composer }

// Hints implements ui.Component.
func (cw *ConversationWindow) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Back"},
		{Key: "Tab", Description: "Chat list"},
	}
}

// SetOnSend sets the callback for a non-blank composed message.
func (cw *ConversationWindow) SetOnSend(fn func(text string)) { cw.onSend = fn }

// SetOnBack sets the callback when the composer is left with Esc.
func (cw *ConversationWindow) SetOnBack(fn func()) { cw.onBack = fn }

// Composer returns the composer input field.
func (cw *ConversationWindow) Composer() *tview.InputField { return cw.composer }

// Messages returns the message pane.
func (cw *ConversationWindow) Messages() *tview.TextView { return cw.messages }

// HasChat reports whether a chat is shown.
func (cw *ConversationWindow) HasChat() bool { return cw.chatName != "" }

// ShowPlaceholder hides the thread.
func (cw *ConversationWindow) ShowPlaceholder() {
	cw.chatName = ""
	cw.SwitchToPage("placeholder")
}

// Update renders the chat named name with its messages, oldest first.
func (cw *ConversationWindow) Update(name string, msgs []MessageRow) {
	cw.chatName = name
	cw.SwitchToPage("thread")

	cw.header.Clear()
	_, _ = fmt.Fprintf(cw.header, " [%s:%s:b] %s [-:-:-] [%s::b]%s[-:-:-]\n    %sonline[-]",
		colorName(tcell.ColorWhite), colorName(AvatarColor(name)), Initials(name),
		colorName(cw.theme.FgColor), sanitize(oneLine(name)),
		ui.ColorTag(cw.theme.MutedColor))

	cw.messages.Clear()
	if len(msgs) == 0 {
		_, _ = fmt.Fprintf(cw.messages, "\n\n          [%s]Start a conversation[-]", colorName(cw.theme.MutedColor))
		return
	}

	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(cw.bubble(m))
	}
	_, _ = fmt.Fprint(cw.messages, b.String())
	cw.messages.ScrollToEnd()
}

func (cw *ConversationWindow) bubble(m MessageRow) string {
	bg := cw.theme.OtherBubbleColor
	indent := " "
	if m.Own {
		bg = cw.theme.OwnBubbleColor
		indent = "        "
	}

	var b strings.Builder
	for _, line := range strings.Split(sanitize(m.Content), "\n") {
		fmt.Fprintf(&b, "%s[%s:%s] %s [-:-]\n", indent, colorName(cw.theme.FgColor), colorName(bg), line)
	}

	meta := fmt.Sprintf("[%s]%s[-]", colorName(cw.theme.MutedColor), m.Time)
	if m.Own {
		tick := cw.theme.MutedColor
		if m.Read {
			tick = cw.theme.ReadTickColor
		}
		meta += fmt.Sprintf(" [%s]✓✓[-]", colorName(tick))
	}
	fmt.Fprintf(&b, "%s %s\n\n", indent, meta)
	return b.String()
}

func colorName(c tcell.Color) string {
	return fmt.Sprintf("#%06x", c.Hex())
}
