package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/wpplocal/internal/tui/ui"
	"github.com/rivo/tview"
	qrcode "github.com/skip2/go-qrcode"
)

// ProfileView shows the user's avatar, editable name and about fields, and
// a QR code of the user id for sharing.
type ProfileView struct {
	*tview.Flex
	theme   *ui.Theme
	avatar  *tview.TextView
	name    *tview.InputField
	about   *tview.InputField
	share   *tview.TextView
	row     ProfileRow
	qrFor   string
	onName  func(string)
	onAbout func(string)
	onDone  func()
}

// NewProfileView creates the profile page.
func NewProfileView(theme *ui.Theme) *ProfileView {
	field := func(label string) *tview.InputField {
		f := tview.NewInputField().SetLabel(label).SetFieldWidth(0)
		f.SetBackgroundColor(theme.BgColor)
		f.SetFieldBackgroundColor(theme.PanelColor)
		f.SetFieldTextColor(theme.FgColor)
		f.SetLabelColor(theme.AccentColor)
		return f
	}

	avatar := tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	avatar.SetBackgroundColor(theme.BgColor)

	share := tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	share.SetBackgroundColor(theme.BgColor)
	share.SetTextColor(theme.FgColor)

	pv := &ProfileView{
		theme:  theme,
		avatar: avatar,
		name:   field(" Your name  "),
		about:  field(" About      "),
		share:  share,
	}

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(avatar, 5, 0, false).
		AddItem(pv.name, 1, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(pv.about, 1, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(share, 0, 1, false)
	flex.SetBorder(true)
	flex.SetBorderColor(theme.BorderColor)
	flex.SetBackgroundColor(theme.BgColor)
	flex.SetTitle(" Profile ")
	flex.SetTitleColor(theme.TitleColor)
	flex.SetTitleAlign(tview.AlignLeft)
	pv.Flex = flex

	pv.name.SetDoneFunc(pv.done(pv.name, func() string { return pv.row.Username }, func(v string) {
		if pv.onName != nil {
			pv.onName(v)
		}
	}))
	pv.about.SetDoneFunc(pv.done(pv.about, func() string { return pv.row.Status }, func(v string) {
		if pv.onAbout != nil {
			pv.onAbout(v)
		}
	}))
	return pv
}

// done handles Enter (save when changed) and Esc (revert).
func (pv *ProfileView) done(f *tview.InputField, current func() string, save func(string)) func(tcell.Key) {
	return func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			if v := f.GetText(); v != current() {
				save(v)
			}
		case tcell.KeyEscape:
			f.SetText(current())
		case tcell.KeyTab, tcell.KeyBacktab:
			f.SetText(current())
			if pv.onDone != nil {
				pv.onDone()
			}
			return
		default:
			return
		}
		if pv.onDone != nil {
			pv.onDone()
		}
	}
}

// Name implements ui.Component.
func (pv *ProfileView) Name() string { return "Profile" }

// FocusTarget implements ui.Component.
func (pv *ProfileView) FocusTarget() tview.Primitive { return pv.Flex }

// Hints implements ui.Component.
func (pv *ProfileView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "e", Description: "Edit name"},
		{Key: "a", Description: "Edit about"},
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Cancel"},
		{Key: ":", Description: "Command"},
		{Key: "1-3", Description: "Views", Numeric: true},
	}
}

// NameField returns the name input.
func (pv *ProfileView) NameField() *tview.InputField { return pv.name }

// AboutField returns the about input.
func (pv *ProfileView) AboutField() *tview.InputField { return pv.about }

// SetOnName sets the callback for a changed name.
func (pv *ProfileView) SetOnName(fn func(string)) { pv.onName = fn }

// SetOnAbout sets the callback for a changed about text.
func (pv *ProfileView) SetOnAbout(fn func(string)) { pv.onAbout = fn }

// SetOnDone sets the callback run when editing a field ends.
func (pv *ProfileView) SetOnDone(fn func()) { pv.onDone = fn }

// Update renders the user; a nil row shows the signed-out state.
func (pv *ProfileView) Update(row *ProfileRow) {
	pv.avatar.Clear()
	if row == nil {
		pv.row = ProfileRow{}
		pv.name.SetText("")
		pv.about.SetText("")
		pv.share.SetText("[::d]No user loaded")
		pv.qrFor = ""
		return
	}

	editingName := pv.name.HasFocus() && pv.name.GetText() != pv.row.Username
	editingAbout := pv.about.HasFocus() && pv.about.GetText() != pv.row.Status
	pv.row = *row
	if !editingName {
		pv.name.SetText(row.Username)
	}
	if !editingAbout {
		pv.about.SetText(row.Status)
	}

	color := colorName(AvatarColor(row.Username))
	_, _ = fmt.Fprintf(pv.avatar, "\n[white:%s:b]  %-2s  [-:-:-]\n[white:%s]      [-:-:-]\n",
		color, Initials(row.Username), color)
	if row.LastSeen != "" {
		_, _ = fmt.Fprintf(pv.avatar, "[%s]last seen %s[-]", colorName(pv.theme.MutedColor), row.LastSeen)
	}

	if pv.qrFor != row.ID {
		pv.qrFor = row.ID
		pv.share.Clear()
		_, _ = fmt.Fprintf(pv.share, "[%s]Share contact[-]\n\n%s\n[::d]%s",
			colorName(pv.theme.AccentColor), renderQR(row.ID), sanitize(row.ID))
	}
}

// renderQR converts a string to a compact QR code using Unicode half-block
// characters. Two bitmap rows become one terminal line.
func renderQR(content string) string {
	qr, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return "(QR generation failed: " + err.Error() + ")"
	}

	bitmap := qr.Bitmap()
	rows := len(bitmap)
	cols := 0
	if rows > 0 {
		cols = len(bitmap[0])
	}

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		for x := 0; x < cols; x++ {
			top := bitmap[y][x]
			bot := y+1 < rows && bitmap[y+1][x]
			switch {
			case top && bot:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bot:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
