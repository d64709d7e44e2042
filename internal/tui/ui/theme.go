package ui

import "github.com/gdamore/tcell/v2"

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor           tcell.Color
	PanelColor        tcell.Color
	FgColor           tcell.Color
	MutedColor        tcell.Color
	AccentColor       tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	OwnBubbleColor    tcell.Color
	OtherBubbleColor  tcell.Color
	ReadTickColor     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	NumericKeyColor   tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color
}

// DefaultTheme returns the WhatsApp Web dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:           tcell.NewHexColor(0x111b21),
		PanelColor:        tcell.NewHexColor(0x202c33),
		FgColor:           tcell.NewHexColor(0xe9edef),
		MutedColor:        tcell.NewHexColor(0x667781),
		AccentColor:       tcell.NewHexColor(0x00a884),
		BorderColor:       tcell.NewHexColor(0x2a3942),
		BorderFocusColor:  tcell.NewHexColor(0x00a884),
		TableCursorFg:     tcell.NewHexColor(0xe9edef),
		TableCursorBg:     tcell.NewHexColor(0x2a3942),
		OwnBubbleColor:    tcell.NewHexColor(0x005c4b),
		OtherBubbleColor:  tcell.NewHexColor(0x202c33),
		ReadTickColor:     tcell.NewHexColor(0x53bdeb),
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.NewHexColor(0x00a884),
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.NewHexColor(0x8696a0),
		MenuKeyColor:      tcell.NewHexColor(0x00a884),
		NumericKeyColor:   tcell.NewHexColor(0x53bdeb),
		TitleColor:        tcell.NewHexColor(0x00a884),
		CounterColor:      tcell.NewHexColor(0xe9edef),
		FlashInfoColor:    tcell.NewHexColor(0xd1d7db),
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: tcell.NewHexColor(0x00a884),
	}
}
