package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/wpplocal/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationList is the "Chats" column: a search field over the sorted
// conversation table.
type ConversationList struct {
	*tview.Flex
	theme    *ui.Theme
	search   *tview.InputField
	table    *tview.Table
	rows     []ChatRow
	onSelect func(chatID string)
	onQuery  func(query string)
}

// NewConversationList creates a new conversation list.
func NewConversationList(theme *ui.Theme) *ConversationList {
	search := tview.NewInputField().
		SetPlaceholder("Search or start new chat").
		SetFieldWidth(0)
	search.SetBackgroundColor(theme.PanelColor)
	search.SetFieldBackgroundColor(theme.PanelColor)
	search.SetFieldTextColor(theme.FgColor)
	search.SetPlaceholderTextColor(theme.MutedColor)
	search.SetLabel(" ⌕ ")
	search.SetLabelColor(theme.MutedColor)

	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(search, 1, 0, false).
		AddItem(table, 0, 1, true)
	flex.SetBorder(true)
	flex.SetBorderColor(theme.BorderColor)
	flex.SetBackgroundColor(theme.BgColor)
	flex.SetTitle(" Chats ")
	flex.SetTitleColor(theme.TitleColor)
	flex.SetTitleAlign(tview.AlignLeft)

	cl := &ConversationList{
		Flex:   flex,
		theme:  theme,
		search: search,
		table:  table,
	}

	table.SetSelectedFunc(func(row, _ int) {
		if id := cl.chatAt(row); id != "" && cl.onSelect != nil {
			cl.onSelect(id)
		}
	})
	search.SetChangedFunc(func(text string) {
		if cl.onQuery != nil {
			cl.onQuery(text)
		}
	})
	return cl
}

// Name implements ui.Component.
func (cl *ConversationList) Name() string { return "Chats" }

// FocusTarget implements ui.Component.
func (cl *ConversationList) FocusTarget() tview.Primitive { return cl.table }

// Hints implements ui.Component.
func (cl *ConversationList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "i", Description: "Compose"},
		{Key: "/", Description: "Search"},
		{Key: "n", Description: "New chat"},
		{Key: "d", Description: "Details"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
		{Key: "q", Description: "Quit"},
		{Key: "1-3", Description: "Views", Numeric: true},
	}
}

// SetOnSelect sets the callback when a conversation is opened.
func (cl *ConversationList) SetOnSelect(fn func(chatID string)) { cl.onSelect = fn }

// SetOnQuery sets the callback when the search text changes.
func (cl *ConversationList) SetOnQuery(fn func(query string)) { cl.onQuery = fn }

// Search returns the search field.
func (cl *ConversationList) Search() *tview.InputField { return cl.search }

// Table returns the conversation table.
func (cl *ConversationList) Table() *tview.Table { return cl.table }

// SetQuery shows query in the search field without firing the callback.
func (cl *ConversationList) SetQuery(query string) {
	if cl.search.GetText() == query {
		return
	}
	fn := cl.onQuery
	cl.onQuery = nil
	cl.search.SetText(query)
	cl.onQuery = fn
}

// Update renders rows; each conversation takes two table lines.
func (cl *ConversationList) Update(rows []ChatRow) {
	cl.rows = rows
	cl.table.Clear()

	if len(rows) == 0 {
		cl.table.SetSelectable(false, false)
		cl.table.SetCell(0, 0, tview.NewTableCell("No chats yet").
			SetTextColor(cl.theme.MutedColor).SetAlign(tview.AlignCenter).SetExpansion(1))
		cl.table.SetCell(1, 0, tview.NewTableCell("Start a new conversation").
			SetTextColor(cl.theme.MutedColor).SetAlign(tview.AlignCenter).SetExpansion(1))
		return
	}
	cl.table.SetSelectable(true, false)

	selected := -1
	for i, r := range rows {
		top, bottom := 2*i, 2*i+1
		color := AvatarColor(r.Name)

		avatar := fmt.Sprintf(" %-2s ", Initials(r.Name))
		cl.table.SetCell(top, 0, tview.NewTableCell(avatar).
			SetTextColor(tcell.ColorWhite).SetBackgroundColor(color).SetAttributes(tcell.AttrBold))
		cl.table.SetCell(bottom, 0, tview.NewTableCell("    ").SetBackgroundColor(color))

		cl.table.SetCell(top, 1, tview.NewTableCell(" "+sanitize(oneLine(r.Name))).
			SetTextColor(cl.theme.FgColor).SetExpansion(1).SetMaxWidth(40))
		cl.table.SetCell(top, 2, tview.NewTableCell(r.Time+" ").
			SetTextColor(cl.theme.MutedColor).SetAlign(tview.AlignRight))

		preview := r.Preview
		if preview == "" {
			preview = noPreview
		}
		cl.table.SetCell(bottom, 1, tview.NewTableCell(" "+sanitize(oneLine(preview))).
			SetTextColor(cl.theme.MutedColor).SetExpansion(1).SetMaxWidth(40))

		badge := ""
		if r.Unread > 0 {
			badge = fmt.Sprintf(" %d ", r.Unread)
		}
		cl.table.SetCell(bottom, 2, tview.NewTableCell(badge).
			SetTextColor(tcell.ColorWhite).SetBackgroundColor(cl.theme.AccentColor).SetAlign(tview.AlignRight))

		if r.Selected {
			selected = top
		}
	}

	if selected >= 0 {
		cl.table.Select(selected, 0)
	} else if row, _ := cl.table.GetSelection(); row >= 2*len(rows) {
		cl.table.Select(0, 0)
	}
}

// chatAt maps a table row to a conversation id.
func (cl *ConversationList) chatAt(row int) string {
	i := row / 2
	if row < 0 || i >= len(cl.rows) {
		return ""
	}
	return cl.rows[i].ID
}

// SelectedChat returns the id of the conversation under the cursor.
func (cl *ConversationList) SelectedChat() string {
	row, _ := cl.table.GetSelection()
	return cl.chatAt(row)
}

// ChatByIndex returns the id of the Nth visible conversation (1-based).
func (cl *ConversationList) ChatByIndex(n int) string {
	if n < 1 || n > len(cl.rows) {
		return ""
	}
	return cl.rows[n-1].ID
}
