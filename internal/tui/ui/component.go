package ui

import "github.com/rivo/tview"

// MenuHint describes a keyboard shortcut for display in the menu bar.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool // true for 1-3 view shortcuts (displayed in a different color)
}

// Component is a page the app shell can show.
type Component interface {
	tview.Primitive
	// Name is the page name and breadcrumb label.
	Name() string
	// Hints lists the page's key bindings for the menu.
	Hints() []MenuHint
	// FocusTarget is the primitive that receives focus when the page is shown.
	FocusTarget() tview.Primitive
}
