// Package nav tracks which top-level view the client shows.
package nav

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/wpplocal/internal/bus"
)

// View is a top-level client view.
type View string

const (
	Loading  View = "loading"
	Chats    View = "chats"
	Contacts View = "contacts"
	Profile  View = "profile"
)

// Views lists the navigable views in rail order.
var Views = []View{Chats, Contacts, Profile}

// validTransitions defines allowed view changes. Loading is never re-entered.
var validTransitions = map[View][]View{
	Loading:  {Chats, Contacts, Profile},
	Chats:    {Contacts, Profile},
	Contacts: {Chats, Profile},
	Profile:  {Chats, Contacts},
}

// ParseView maps a view name to a navigable View.
func ParseView(name string) (View, error) {
	v := View(name)
	if !slices.Contains(Views, v) {
		return "", fmt.Errorf("unknown view %q", name)
	}
	return v, nil
}

// Machine tracks and enforces the active view.
type Machine struct {
	mu      sync.RWMutex
	current View
	bus     *bus.Bus
}

// NewMachine creates a machine starting in Loading.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Loading,
		bus:     b,
	}
}

// Current returns the active view.
func (m *Machine) Current() View {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition switches to the given view. Switching to the active view is a
// no-op and publishes nothing.
func (m *Machine) Transition(to View) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if to == m.current {
		return nil
	}
	if !slices.Contains(validTransitions[m.current], to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	m.bus.Emit(bus.KindViewChanged, ViewChange{From: from, To: to})
	return nil
}

// ViewChange is the payload for view change events.
type ViewChange struct {
	From View
	To   View
}
