package ui

import "github.com/rivo/tview"

// Pages is a stack of Components over tview.Pages. The bottom of the stack
// is the active top-level view; detail pages are pushed above it.
type Pages struct {
	*tview.Pages
	stack    []Component
	onChange func(stack []Component)
}

// NewPages creates an empty page stack.
func NewPages() *Pages {
	return &Pages{
		Pages: tview.NewPages(),
	}
}

// SetOnChange sets a callback that fires when the stack changes.
func (p *Pages) SetOnChange(fn func(stack []Component)) {
	p.onChange = fn
}

func (p *Pages) show(c Component) {
	if !p.HasPage(c.Name()) {
		p.AddPage(c.Name(), c, true, false)
	}
	p.ShowPage(c.Name())
	p.SendToFront(c.Name())
}

// Push shows c above the current page.
func (p *Pages) Push(c Component) {
	if top := p.Top(); top != nil {
		p.HidePage(top.Name())
	}
	p.stack = append(p.stack, c)
	p.show(c)
	p.notify()
}

// Pop removes the top page and shows the one below it. The last page is
// never popped; Pop returns nil in that case.
func (p *Pages) Pop() Component {
	if len(p.stack) < 2 {
		return nil
	}
	top := p.stack[len(p.stack)-1]
	p.HidePage(top.Name())
	p.stack = p.stack[:len(p.stack)-1]
	p.show(p.stack[len(p.stack)-1])
	p.notify()
	return top
}

// Top returns the visible page, or nil.
func (p *Pages) Top() Component {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

// Current returns the name of the visible page.
func (p *Pages) Current() string {
	if top := p.Top(); top != nil {
		return top.Name()
	}
	return ""
}

// Depth returns the current stack depth.
func (p *Pages) Depth() int {
	return len(p.stack)
}

// Reset clears the stack and shows only c.
func (p *Pages) Reset(c Component) {
	for _, s := range p.stack {
		p.HidePage(s.Name())
	}
	p.stack = []Component{c}
	p.show(c)
	p.notify()
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(append([]Component(nil), p.stack...))
	}
}
