package store_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/wpplocal/internal/bus"
	"github.com/matheus3301/wpplocal/internal/kv"
	"github.com/matheus3301/wpplocal/internal/store"
	"github.com/matheus3301/wpplocal/internal/store/storetest"
)

func TestLocalConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) store.Store {
		s := store.NewLocal(kv.NewMemory(), nil, nil)
		s.SetClock(now)
		return s
	})
}

// countingStorage records writes made through it.
type countingStorage struct {
	kv.Storage
	sets int
}

func (c *countingStorage) SetItem(ctx context.Context, key, value string) error {
	c.sets++
	return c.Storage.SetItem(ctx, key, value)
}

// failingStorage fails every call.
type failingStorage struct{}

var errDisk = errors.New("disk full")

func (failingStorage) GetItem(context.Context, string) (string, bool, error) {
	return "", false, errDisk
}
func (failingStorage) SetItem(context.Context, string, string) error { return errDisk }
func (failingStorage) RemoveItem(context.Context, string) error      { return errDisk }
func (failingStorage) Keys(context.Context) ([]string, error)        { return nil, errDisk }

func TestUpdateChatMissingWritesNothing(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	cs := &countingStorage{Storage: mem}
	s := store.NewLocal(cs, nil, nil)

	if err := s.SetChats(ctx, []store.Chat{{ID: "c1", UpdatedAt: time.Unix(0, 0)}}); err != nil {
		t.Fatal(err)
	}
	before, _, _ := mem.GetItem(ctx, store.KeyChats)
	cs.sets = 0

	name := "x"
	if err := s.UpdateChat(ctx, "missing", store.ChatUpdate{Name: &name}); err != nil {
		t.Fatal(err)
	}
	if cs.sets != 0 {
		t.Errorf("UpdateChat on missing id made %d writes, want 0", cs.sets)
	}
	after, _, _ := mem.GetItem(ctx, store.KeyChats)
	if before != after {
		t.Errorf("stored chats changed:\n%s\n%s", before, after)
	}
}

func TestSnapshotWireFormat(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := store.NewLocal(mem, nil, nil)
	ts := time.Date(2024, 1, 2, 3, 4, 5, 678_900_000, time.FixedZone("x", 3600))

	if err := s.SetChats(ctx, []store.Chat{{ID: "c1", UpdatedAt: ts}}); err != nil {
		t.Fatal(err)
	}
	got, _, _ := mem.GetItem(ctx, store.KeyChats)
	want := `[{"id":"c1","name":"","isGroup":false,"participants":[],"updatedAt":"2024-01-02T02:04:05.678Z"}]`
	if got != want {
		t.Errorf("stored chats =\n%s\nwant\n%s", got, want)
	}

	if err := s.AddContact(ctx, store.Contact{ID: "u2", UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
	got, _, _ = mem.GetItem(ctx, store.KeyContacts)
	if want := `[{"id":"u2","userId":"u1"}]`; got != want {
		t.Errorf("stored contacts = %s, want %s", got, want)
	}
}

func TestReadsExternallyWrittenSnapshot(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	_ = mem.SetItem(ctx, store.KeyMessages,
		`[{"id":"m1","chatId":"c","senderId":"u","content":"hi","timestamp":"2024-05-01T10:00:00Z","read":false},`+
			`{"id":"m2","chatId":"c","senderId":"u","content":"yo","timestamp":"2024-05-01T09:00:00.5+02:00","read":true}]`)
	s := store.NewLocal(mem, nil, nil)

	msgs, err := s.GetChatMessages(ctx, "c")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || msgs[0].ID != "m2" {
		t.Fatalf("GetChatMessages = %+v, want m2 first", msgs)
	}
	if want := time.Date(2024, 5, 1, 7, 0, 0, 500_000_000, time.UTC); !msgs[0].Timestamp.Equal(want) {
		t.Errorf("m2 timestamp = %v, want %v", msgs[0].Timestamp, want)
	}
}

func TestMalformedSnapshot(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		read  func(context.Context, *store.Local) error
	}{
		{"user json", store.KeyUser, `{"id":`, func(ctx context.Context, s *store.Local) error { _, err := s.GetUser(ctx); return err }},
		{"user date", store.KeyUser, `{"id":"u","lastSeen":"yesterday"}`, func(ctx context.Context, s *store.Local) error { _, err := s.GetUser(ctx); return err }},
		{"contacts", store.KeyContacts, `{}`, func(ctx context.Context, s *store.Local) error { _, err := s.GetContacts(ctx); return err }},
		{"chats date", store.KeyChats, `[{"id":"c","updatedAt":""}]`, func(ctx context.Context, s *store.Local) error { _, err := s.GetChats(ctx); return err }},
		{"last message date", store.KeyChats, `[{"id":"c","updatedAt":"2024-01-01T00:00:00.000Z","lastMessage":{"id":"m","timestamp":"nope"}}]`, func(ctx context.Context, s *store.Local) error { _, err := s.GetChats(ctx); return err }},
		{"messages", store.KeyMessages, `[1,2`, func(ctx context.Context, s *store.Local) error { _, err := s.GetMessages(ctx); return err }},
		{"add message", store.KeyMessages, `not json`, func(ctx context.Context, s *store.Local) error {
			return s.AddMessage(ctx, store.Message{ID: "m"})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mem := kv.NewMemory()
			_ = mem.SetItem(ctx, tt.key, tt.value)
			s := store.NewLocal(mem, nil, nil)

			err := tt.read(ctx, s)
			if !errors.Is(err, store.ErrDecode) {
				t.Errorf("err = %v, want ErrDecode", err)
			}
			// The bad value is left in place.
			if v, _, _ := mem.GetItem(ctx, tt.key); v != tt.value {
				t.Errorf("stored value rewritten to %q", v)
			}
		})
	}
}

func TestNullUserIsAbsent(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	_ = mem.SetItem(ctx, store.KeyUser, "null")
	s := store.NewLocal(mem, nil, nil)

	u, err := s.GetUser(ctx)
	if err != nil || u != nil {
		t.Errorf("GetUser() = (%v, %v), want (nil, nil)", u, err)
	}
}

func TestStorageErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	s := store.NewLocal(failingStorage{}, nil, nil)

	if _, err := s.GetChats(ctx); !errors.Is(err, errDisk) {
		t.Errorf("GetChats err = %v, want wrapped errDisk", err)
	}
	err := s.SetUser(ctx, store.User{ID: "u"})
	if !errors.Is(err, errDisk) {
		t.Errorf("SetUser err = %v, want wrapped errDisk", err)
	}
	if !strings.Contains(err.Error(), store.KeyUser) {
		t.Errorf("SetUser err = %q, want key in message", err)
	}
	if err := s.InitializeDemoData(ctx); !errors.Is(err, errDisk) {
		t.Errorf("InitializeDemoData err = %v, want wrapped errDisk", err)
	}
}

func TestWritesPublishEvents(t *testing.T) {
	ctx := context.Background()
	b := bus.New()
	ch, unsub := b.Subscribe("store.", 16)
	defer unsub()
	s := store.NewLocal(kv.NewMemory(), b, nil)

	if err := s.AddMessage(ctx, store.Message{ID: "m1", ChatID: "c"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetUser(ctx, store.User{ID: "u"}); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{bus.KindMessagesWritten, bus.KindUserWritten} {
		select {
		case evt := <-ch:
			if evt.Kind != want {
				t.Errorf("event kind = %q, want %q", evt.Kind, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %s", want)
		}
	}
}

func TestChatApply(t *testing.T) {
	orig := store.Chat{ID: "c", Name: "a", Participants: []string{"u1"}}
	parts := []string{"u1", "u2"}
	got := orig.Apply(store.ChatUpdate{Participants: parts})
	parts[0] = "mutated"

	if got.Participants[0] != "u1" || len(got.Participants) != 2 {
		t.Errorf("Apply shares the participants slice: %v", got.Participants)
	}
	if got.Name != "a" || got.ID != "c" {
		t.Errorf("Apply touched unset fields: %+v", got)
	}
	if !(store.ChatUpdate{}).IsZero() {
		t.Error("empty ChatUpdate not zero")
	}
}

func TestUserApply(t *testing.T) {
	u := store.User{ID: "u", Username: "old", Status: "s"}
	name := "new"
	got := u.Apply(store.UserUpdate{Username: &name})
	if got.Username != "new" || got.Status != "s" || got.ID != "u" {
		t.Errorf("Apply = %+v", got)
	}
}

func TestMessageMarshalRoundTrip(t *testing.T) {
	m := store.Message{ID: "m", ChatID: "c", SenderID: "u", Content: "x", Timestamp: time.UnixMilli(1700000000123), Read: true}
	data, err := store.MarshalMessage(m)
	if err != nil {
		t.Fatal(err)
	}
	got, err := store.UnmarshalMessage(data)
	if err != nil {
		t.Fatal(err)
	}
	if !storetest.EqualMessage(got, m) {
		t.Errorf("round trip = %+v, want %+v", got, m)
	}
	if _, err := store.UnmarshalMessage([]byte("{")); !errors.Is(err, store.ErrDecode) {
		t.Errorf("UnmarshalMessage(bad) err = %v", err)
	}
}
