package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/wpplocal/internal/tui/ui"
	"github.com/rivo/tview"
)

// ContactList is the "Contacts" column: an optional add-contact form, a
// search field, the match count and the contact table.
type ContactList struct {
	*tview.Flex
	theme    *ui.Theme
	add      *tview.InputField
	search   *tview.InputField
	count    *tview.TextView
	table    *tview.Table
	rows     []ContactRow
	adding   bool
	onStart  func(contactID string)
	onAdd    func(nickname string)
	onQuery  func(query string)
	onCancel func()
}

// NewContactList creates the contact list.
func NewContactList(theme *ui.Theme) *ContactList {
	field := func(placeholder string) *tview.InputField {
		f := tview.NewInputField().
			SetPlaceholder(placeholder).
			SetFieldWidth(0)
		f.SetBackgroundColor(theme.PanelColor)
		f.SetFieldBackgroundColor(theme.PanelColor)
		f.SetFieldTextColor(theme.FgColor)
		f.SetPlaceholderTextColor(theme.MutedColor)
		f.SetLabelColor(theme.AccentColor)
		return f
	}
	add := field("Enter contact name").SetLabel(" + ")
	search := field("Search contacts").SetLabel(" ⌕ ")

	count := tview.NewTextView().SetDynamicColors(true)
	count.SetBackgroundColor(theme.BgColor)
	count.SetTextColor(theme.AccentColor)

	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	flex := tview.NewFlex().SetDirection(tview.FlexRow)
	flex.SetBorder(true)
	flex.SetBorderColor(theme.BorderColor)
	flex.SetBackgroundColor(theme.BgColor)
	flex.SetTitle(" Contacts ")
	flex.SetTitleColor(theme.TitleColor)
	flex.SetTitleAlign(tview.AlignLeft)

	cl := &ContactList{
		Flex:   flex,
		theme:  theme,
		add:    add,
		search: search,
		count:  count,
		table:  table,
	}
	cl.layout()

	table.SetSelectedFunc(func(row, _ int) {
		if row >= 0 && row/2 < len(cl.rows) && cl.onStart != nil {
			cl.onStart(cl.rows[row/2].ID)
		}
	})
	add.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			name := strings.TrimSpace(add.GetText())
			if name == "" {
				return
			}
			add.SetText("")
			cl.ShowAddForm(false)
			if cl.onAdd != nil {
				cl.onAdd(name)
			}
		case tcell.KeyEscape:
			add.SetText("")
			cl.ShowAddForm(false)
			if cl.onCancel != nil {
				cl.onCancel()
			}
		}
	})
	search.SetChangedFunc(func(text string) {
		if cl.onQuery != nil {
			cl.onQuery(text)
		}
	})
	return cl
}

func (cl *ContactList) layout() {
	cl.Flex.Clear()
	if cl.adding {
		cl.AddItem(cl.add, 1, 0, false)
	}
	cl.AddItem(cl.search, 1, 0, false).
		AddItem(cl.count, 1, 0, false).
		AddItem(cl.table, 0, 1, true)
}

// Name implements ui.Component.
func (cl *ContactList) Name() string { return "Contacts" }

// FocusTarget implements ui.Component.
func (cl *ContactList) FocusTarget() tview.Primitive {
	if cl.adding {
		return cl.add
	}
	return cl.table
}

// Hints implements ui.Component.
func (cl *ContactList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Start chat"},
		{Key: "a", Description: "Add contact"},
		{Key: "/", Description: "Search"},
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
		{Key: "1-3", Description: "Views", Numeric: true},
	}
}

// SetOnStartChat sets the callback when a contact is chosen.
func (cl *ContactList) SetOnStartChat(fn func(contactID string)) { cl.onStart = fn }

// SetOnAdd sets the callback for a non-blank new contact name.
func (cl *ContactList) SetOnAdd(fn func(nickname string)) { cl.onAdd = fn }

// SetOnQuery sets the callback when the search text changes.
func (cl *ContactList) SetOnQuery(fn func(query string)) { cl.onQuery = fn }

// SetOnCancel sets the callback when the add form is dismissed.
func (cl *ContactList) SetOnCancel(fn func()) { cl.onCancel = fn }

// Query returns the search text.
func (cl *ContactList) Query() string { return cl.search.GetText() }

// SetQuery replaces the search text.
func (cl *ContactList) SetQuery(q string) { cl.search.SetText(q) }

// Search returns the search field.
func (cl *ContactList) Search() *tview.InputField { return cl.search }

// Adding reports whether the add form is shown.
func (cl *ContactList) Adding() bool { return cl.adding }

// ShowAddForm toggles the add-contact form.
func (cl *ContactList) ShowAddForm(show bool) {
	if cl.adding == show {
		return
	}
	cl.adding = show
	cl.layout()
}

// Update renders the filtered contacts.
func (cl *ContactList) Update(rows []ContactRow) {
	cl.rows = rows
	cl.table.Clear()

	cl.count.Clear()
	plural := "S"
	if len(rows) == 1 {
		plural = ""
	}
	_, _ = fmt.Fprintf(cl.count, " %d CONTACT%s", len(rows), plural)

	if len(rows) == 0 {
		cl.table.SetSelectable(false, false)
		cl.table.SetCell(0, 0, tview.NewTableCell("No contacts found").
			SetTextColor(cl.theme.MutedColor).SetAlign(tview.AlignCenter).SetExpansion(1))
		cl.table.SetCell(1, 0, tview.NewTableCell("Add contacts to start chatting").
			SetTextColor(cl.theme.MutedColor).SetAlign(tview.AlignCenter).SetExpansion(1))
		return
	}
	cl.table.SetSelectable(true, false)

	for i, r := range rows {
		top, bottom := 2*i, 2*i+1
		label := r.Nickname
		if label == "" {
			label = "Unknown"
		}
		color := AvatarColor(label)
		cl.table.SetCell(top, 0, tview.NewTableCell(fmt.Sprintf(" %-2s ", Initials(label))).
			SetTextColor(tcell.ColorWhite).SetBackgroundColor(color).SetAttributes(tcell.AttrBold))
		cl.table.SetCell(bottom, 0, tview.NewTableCell("    ").SetBackgroundColor(color))

		status := r.Status
		if status == "" {
			status = defaultContactStatus
		}
		cl.table.SetCell(top, 1, tview.NewTableCell(" "+sanitize(oneLine(r.Nickname))).
			SetTextColor(cl.theme.FgColor).SetExpansion(1))
		cl.table.SetCell(bottom, 1, tview.NewTableCell(" "+sanitize(oneLine(status))).
			SetTextColor(cl.theme.MutedColor).SetExpansion(1))
	}
	if row, _ := cl.table.GetSelection(); row >= 2*len(rows) {
		cl.table.Select(0, 0)
	}
}

// Table returns the contact table.
func (cl *ContactList) Table() *tview.Table { return cl.table }

// SelectedContact returns the id of the contact under the cursor.
func (cl *ContactList) SelectedContact() string {
	row, _ := cl.table.GetSelection()
	if row < 0 || row/2 >= len(cl.rows) {
		return ""
	}
	return cl.rows[row/2].ID
}
