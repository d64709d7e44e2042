package nav

import (
	"testing"
	"time"

	"github.com/matheus3301/wpplocal/internal/bus"
)

func TestInitialView(t *testing.T) {
	m := NewMachine(nil)
	if m.Current() != Loading {
		t.Errorf("initial view = %s, want loading", m.Current())
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		from View
		to   View
	}{
		{Loading, Chats},
		{Loading, Contacts},
		{Loading, Profile},
		{Chats, Contacts},
		{Chats, Profile},
		{Contacts, Chats},
		{Contacts, Profile},
		{Profile, Chats},
		{Profile, Contacts},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(nil)
			if tt.from != Loading {
				if err := m.Transition(tt.from); err != nil {
					t.Fatal(err)
				}
			}
			if err := m.Transition(tt.to); err != nil {
				t.Errorf("Transition(%s -> %s) error = %v", tt.from, tt.to, err)
			}
			if m.Current() != tt.to {
				t.Errorf("view = %s, want %s", m.Current(), tt.to)
			}
		})
	}
}

func TestLoadingNotReentered(t *testing.T) {
	for _, from := range Views {
		m := NewMachine(nil)
		if err := m.Transition(from); err != nil {
			t.Fatal(err)
		}
		if err := m.Transition(Loading); err == nil {
			t.Errorf("Transition(%s -> loading) should fail", from)
		}
		if m.Current() != from {
			t.Errorf("view changed to %s after rejected transition", m.Current())
		}
	}
}

func TestSameViewIsSilent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("view.", 10)
	defer unsub()

	m := NewMachine(b)
	if err := m.Transition(Chats); err != nil {
		t.Fatal(err)
	}
	<-ch
	if err := m.Transition(Chats); err != nil {
		t.Fatal(err)
	}
	select {
	case evt := <-ch:
		t.Errorf("unexpected event %+v", evt)
	default:
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("view.", 10)
	defer unsub()

	m := NewMachine(b)
	if err := m.Transition(Contacts); err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-ch:
		if evt.Kind != bus.KindViewChanged {
			t.Errorf("kind = %s, want %s", evt.Kind, bus.KindViewChanged)
		}
		change, ok := evt.Payload.(ViewChange)
		if !ok {
			t.Fatalf("payload type = %T, want ViewChange", evt.Payload)
		}
		if change.From != Loading || change.To != Contacts {
			t.Errorf("change = %+v, want loading -> contacts", change)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for view change event")
	}
}

func TestParseView(t *testing.T) {
	tests := []struct {
		in      string
		want    View
		wantErr bool
	}{
		{"chats", Chats, false},
		{"contacts", Contacts, false},
		{"profile", Profile, false},
		{"loading", "", true},
		{"", "", true},
		{"Chats", "", true},
	}
	for _, tt := range tests {
		got, err := ParseView(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseView(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseView(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
