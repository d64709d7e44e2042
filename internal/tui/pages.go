package tui

import (
	"fmt"

	"github.com/matheus3301/wpplocal/internal/nav"
	"github.com/matheus3301/wpplocal/internal/tui/ui"
	"github.com/matheus3301/wpplocal/internal/tui/views"
	"github.com/rivo/tview"
)

// chatsPage places the conversation list beside the open conversation.
type chatsPage struct {
	*tview.Flex
	list   *views.ConversationList
	window *views.ConversationWindow
}

func newChatsPage(list *views.ConversationList, window *views.ConversationWindow) *chatsPage {
	flex := tview.NewFlex().
		AddItem(list, 0, 2, true).
		AddItem(window, 0, 3, false)
	return &chatsPage{Flex: flex, list: list, window: window}
}

func (p *chatsPage) Name() string { return p.list.Name() }

func (p *chatsPage) FocusTarget() tview.Primitive { return p.list.FocusTarget() }

func (p *chatsPage) Hints() []ui.MenuHint {
	if p.window.HasFocus() {
		return p.window.Hints()
	}
	return p.list.Hints()
}

// loadingPage is shown until a user profile is loaded.
type loadingPage struct {
	*tview.TextView
	theme *ui.Theme
}

func newLoadingPage(theme *ui.Theme) *loadingPage {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	lp := &loadingPage{TextView: tv, theme: theme}
	lp.Update(nav.Loading)
	return lp
}

func (lp *loadingPage) Name() string { return "Loading" }

func (lp *loadingPage) FocusTarget() tview.Primitive { return lp.TextView }

func (lp *loadingPage) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: ":", Description: "Command"},
		{Key: "q", Description: "Quit"},
	}
}

// Update shows the waiting message, or the missing-profile notice once
// navigation has left the loading state without a user.
func (lp *loadingPage) Update(v nav.View) {
	lp.Clear()
	muted := ui.ColorTag(lp.theme.MutedColor)
	if v == nav.Loading {
		_, _ = fmt.Fprintf(lp, "\n\n\n%sLoading...[-]", muted)
		return
	}
	_, _ = fmt.Fprintf(lp, "\n\n\n%sNo user profile found.[-]\n\n%sRun [::b]wppctl seed[::-] to create the demo data.[-]", muted, muted)
}
