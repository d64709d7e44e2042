// Package storetest is a conformance suite for store.Store implementations.
package storetest

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/matheus3301/wpplocal/internal/store"
)

// Factory returns an empty store. now is the clock the store must use when
// initializing demo data.
type Factory func(t *testing.T, now func() time.Time) store.Store

// base is a millisecond-aligned instant; stored timestamps keep millisecond
// precision only.
var base = time.Date(2025, 3, 14, 15, 9, 26, 535_000_000, time.UTC)

// Run exercises s against every behavior the record store guarantees.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"EmptyReads", testEmptyReads},
		{"UserRoundTrip", testUserRoundTrip},
		{"ContactsRoundTrip", testContactsRoundTrip},
		{"ChatsRoundTrip", testChatsRoundTrip},
		{"MessagesRoundTrip", testMessagesRoundTrip},
		{"AddAppends", testAddAppends},
		{"DuplicateIDsAccepted", testDuplicateIDs},
		{"UpdateChatMerges", testUpdateChatMerges},
		{"UpdateChatFirstMatch", testUpdateChatFirstMatch},
		{"UpdateChatMissing", testUpdateChatMissing},
		{"ChatMessagesFilterAndOrder", testChatMessagesOrder},
		{"ChatMessagesUnknownChat", testChatMessagesUnknown},
		{"MarkMessagesAsRead", testMarkRead},
		{"SetReplacesCollection", testSetReplaces},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t, func() time.Time { return base }))
		})
	}

	t.Run("InitializeDemoData", func(t *testing.T) {
		testDemoData(t, newStore(t, func() time.Time { return base }))
	})
	t.Run("InitializeDemoDataIdempotent", func(t *testing.T) {
		testDemoIdempotent(t, newStore(t, func() time.Time { return base }))
	})
	t.Run("InitializeDemoDataKeepsExistingUser", func(t *testing.T) {
		testDemoExistingUser(t, newStore(t, func() time.Time { return base }))
	})
}

func at(offset time.Duration) time.Time { return base.Add(offset) }

func ptr[T any](v T) *T { return &v }

func mustNil(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

// EqualUser compares users field by field with time.Equal.
func EqualUser(a, b store.User) bool {
	return a.ID == b.ID && a.Username == b.Username && a.AvatarURL == b.AvatarURL &&
		a.Status == b.Status && a.LastSeen.Equal(b.LastSeen)
}

// EqualMessage compares messages field by field with time.Equal.
func EqualMessage(a, b store.Message) bool {
	return a.ID == b.ID && a.ChatID == b.ChatID && a.SenderID == b.SenderID &&
		a.Content == b.Content && a.Timestamp.Equal(b.Timestamp) && a.Read == b.Read
}

// EqualChat compares chats field by field. A nil and an empty participant
// list are equal.
func EqualChat(a, b store.Chat) bool {
	if a.ID != b.ID || a.Name != b.Name || a.IsGroup != b.IsGroup ||
		!slices.Equal(a.Participants, b.Participants) || !a.UpdatedAt.Equal(b.UpdatedAt) {
		return false
	}
	if (a.LastMessage == nil) != (b.LastMessage == nil) {
		return false
	}
	return a.LastMessage == nil || EqualMessage(*a.LastMessage, *b.LastMessage)
}

func equalMessages(a, b []store.Message) bool {
	return slices.EqualFunc(a, b, EqualMessage)
}

func equalChats(a, b []store.Chat) bool {
	return slices.EqualFunc(a, b, EqualChat)
}

func messageIDs(msgs []store.Message) []string {
	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	return ids
}

func testEmptyReads(t *testing.T, s store.Store) {
	ctx := context.Background()

	u, err := s.GetUser(ctx)
	mustNil(t, err)
	if u != nil {
		t.Errorf("GetUser() on empty store = %+v, want nil", u)
	}

	contacts, err := s.GetContacts(ctx)
	mustNil(t, err)
	if contacts == nil || len(contacts) != 0 {
		t.Errorf("GetContacts() = %#v, want empty non-nil", contacts)
	}
	chats, err := s.GetChats(ctx)
	mustNil(t, err)
	if chats == nil || len(chats) != 0 {
		t.Errorf("GetChats() = %#v, want empty non-nil", chats)
	}
	msgs, err := s.GetMessages(ctx)
	mustNil(t, err)
	if msgs == nil || len(msgs) != 0 {
		t.Errorf("GetMessages() = %#v, want empty non-nil", msgs)
	}
}

func testUserRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	want := store.User{ID: "u1", Username: "Ada", AvatarURL: "https://example.com/a.png", Status: "Busy", LastSeen: at(-time.Minute)}
	mustNil(t, s.SetUser(ctx, want))

	got, err := s.GetUser(ctx)
	mustNil(t, err)
	if got == nil || !EqualUser(*got, want) {
		t.Fatalf("GetUser() = %+v, want %+v", got, want)
	}

	// A second SetUser replaces the first.
	want.Username = "Ada L."
	mustNil(t, s.SetUser(ctx, want))
	got, err = s.GetUser(ctx)
	mustNil(t, err)
	if got == nil || got.Username != "Ada L." {
		t.Errorf("GetUser() after overwrite = %+v", got)
	}
}

func testContactsRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	want := []store.Contact{
		{ID: "c1", UserID: "u1", Nickname: "Bob", Status: "At work"},
		{ID: "c2", UserID: "u1"},
		{ID: "c3", UserID: "u1", Nickname: "Zoë 🎉"},
	}
	mustNil(t, s.SetContacts(ctx, want))

	got, err := s.GetContacts(ctx)
	mustNil(t, err)
	if !slices.Equal(got, want) {
		t.Errorf("GetContacts() = %+v, want %+v", got, want)
	}
}

func testChatsRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	last := store.Message{ID: "m9", ChatID: "g1", SenderID: "u1", Content: "see you", Timestamp: at(-time.Second)}
	want := []store.Chat{
		{ID: "d1", Participants: []string{"u1", "c1"}, UpdatedAt: at(-time.Hour)},
		{ID: "g1", Name: "Group", IsGroup: true, Participants: []string{"u1", "c1", "c2"}, LastMessage: &last, UpdatedAt: at(-time.Second)},
		{ID: "e1", Participants: []string{}, UpdatedAt: at(0)},
	}
	mustNil(t, s.SetChats(ctx, want))

	got, err := s.GetChats(ctx)
	mustNil(t, err)
	if !equalChats(got, want) {
		t.Errorf("GetChats() = %+v, want %+v", got, want)
	}
}

func testMessagesRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	want := []store.Message{
		{ID: "m1", ChatID: "a", SenderID: "u1", Content: "hi", Timestamp: at(0), Read: true},
		{ID: "m2", ChatID: "b", SenderID: "u2", Content: "line1\nline2 \"quoted\"", Timestamp: at(time.Millisecond)},
	}
	mustNil(t, s.SetMessages(ctx, want))

	got, err := s.GetMessages(ctx)
	mustNil(t, err)
	if !equalMessages(got, want) {
		t.Errorf("GetMessages() = %+v, want %+v", got, want)
	}
}

func testAddAppends(t *testing.T, s store.Store) {
	ctx := context.Background()

	mustNil(t, s.AddContact(ctx, store.Contact{ID: "c1", UserID: "u1", Nickname: "One"}))
	mustNil(t, s.AddContact(ctx, store.Contact{ID: "c2", UserID: "u1", Nickname: "Two"}))
	contacts, err := s.GetContacts(ctx)
	mustNil(t, err)
	if len(contacts) != 2 || contacts[0].ID != "c1" || contacts[1].ID != "c2" {
		t.Errorf("contacts after AddContact = %+v", contacts)
	}

	mustNil(t, s.AddChat(ctx, store.Chat{ID: "x", UpdatedAt: at(0)}))
	mustNil(t, s.AddChat(ctx, store.Chat{ID: "y", UpdatedAt: at(-time.Hour)}))
	chats, err := s.GetChats(ctx)
	mustNil(t, err)
	if len(chats) != 2 || chats[0].ID != "x" || chats[1].ID != "y" {
		t.Errorf("chats after AddChat = %+v", chats)
	}

	// Insertion order, not timestamp order.
	mustNil(t, s.AddMessage(ctx, store.Message{ID: "late", ChatID: "x", Timestamp: at(time.Hour)}))
	mustNil(t, s.AddMessage(ctx, store.Message{ID: "early", ChatID: "x", Timestamp: at(0)}))
	msgs, err := s.GetMessages(ctx)
	mustNil(t, err)
	if ids := messageIDs(msgs); !slices.Equal(ids, []string{"late", "early"}) {
		t.Errorf("GetMessages() ids = %v, want [late early]", ids)
	}
}

func testDuplicateIDs(t *testing.T, s store.Store) {
	ctx := context.Background()
	m := store.Message{ID: "dup", ChatID: "c", SenderID: "u", Content: "a", Timestamp: at(0)}
	mustNil(t, s.AddMessage(ctx, m))
	m.Content = "b"
	mustNil(t, s.AddMessage(ctx, m))

	msgs, err := s.GetMessages(ctx)
	mustNil(t, err)
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Content != "a" || msgs[1].Content != "b" {
		t.Errorf("contents = %q, %q", msgs[0].Content, msgs[1].Content)
	}

	mustNil(t, s.AddContact(ctx, store.Contact{ID: "same", UserID: "u"}))
	mustNil(t, s.AddContact(ctx, store.Contact{ID: "same", UserID: "u"}))
	contacts, err := s.GetContacts(ctx)
	mustNil(t, err)
	if len(contacts) != 2 {
		t.Errorf("got %d contacts, want 2", len(contacts))
	}
}

func testUpdateChatMerges(t *testing.T, s store.Store) {
	ctx := context.Background()
	orig := store.Chat{ID: "c1", Name: "", Participants: []string{"u1", "u2"}, UpdatedAt: at(-time.Hour)}
	other := store.Chat{ID: "c2", Participants: []string{"u1", "u3"}, UpdatedAt: at(-2 * time.Hour)}
	mustNil(t, s.SetChats(ctx, []store.Chat{orig, other}))

	last := store.Message{ID: "m1", ChatID: "c1", SenderID: "u1", Content: "hello", Timestamp: at(0)}
	mustNil(t, s.UpdateChat(ctx, "c1", store.ChatUpdate{LastMessage: &last, UpdatedAt: ptr(at(0))}))

	chats, err := s.GetChats(ctx)
	mustNil(t, err)
	want := orig
	want.LastMessage = &last
	want.UpdatedAt = at(0)
	if !equalChats(chats, []store.Chat{want, other}) {
		t.Errorf("GetChats() after update = %+v", chats)
	}

	// Fields left nil stay untouched; set fields overwrite.
	mustNil(t, s.UpdateChat(ctx, "c1", store.ChatUpdate{Name: ptr("Renamed"), IsGroup: ptr(true), Participants: []string{"u1"}}))
	chats, err = s.GetChats(ctx)
	mustNil(t, err)
	want.Name = "Renamed"
	want.IsGroup = true
	want.Participants = []string{"u1"}
	if !EqualChat(chats[0], want) {
		t.Errorf("chat after second update = %+v, want %+v", chats[0], want)
	}
}

func testUpdateChatFirstMatch(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustNil(t, s.SetChats(ctx, []store.Chat{
		{ID: "dup", Name: "first", UpdatedAt: at(0)},
		{ID: "dup", Name: "second", UpdatedAt: at(0)},
	}))
	mustNil(t, s.UpdateChat(ctx, "dup", store.ChatUpdate{Name: ptr("changed")}))

	chats, err := s.GetChats(ctx)
	mustNil(t, err)
	if chats[0].Name != "changed" || chats[1].Name != "second" {
		t.Errorf("names = %q, %q, want changed, second", chats[0].Name, chats[1].Name)
	}
}

func testUpdateChatMissing(t *testing.T, s store.Store) {
	ctx := context.Background()
	want := []store.Chat{{ID: "c1", Participants: []string{"u1"}, UpdatedAt: at(0)}}
	mustNil(t, s.SetChats(ctx, want))

	mustNil(t, s.UpdateChat(ctx, "missing", store.ChatUpdate{Name: ptr("x")}))

	got, err := s.GetChats(ctx)
	mustNil(t, err)
	if !equalChats(got, want) {
		t.Errorf("GetChats() = %+v, want unchanged %+v", got, want)
	}
}

func testChatMessagesOrder(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustNil(t, s.SetMessages(ctx, []store.Message{
		{ID: "a3", ChatID: "a", Timestamp: at(3 * time.Second)},
		{ID: "b1", ChatID: "b", Timestamp: at(time.Second)},
		{ID: "a1", ChatID: "a", Timestamp: at(time.Second)},
		{ID: "a2x", ChatID: "a", Timestamp: at(2 * time.Second)},
		{ID: "a2y", ChatID: "a", Timestamp: at(2 * time.Second)},
	}))

	got, err := s.GetChatMessages(ctx, "a")
	mustNil(t, err)
	want := []string{"a1", "a2x", "a2y", "a3"}
	if ids := messageIDs(got); !slices.Equal(ids, want) {
		t.Errorf("GetChatMessages(a) = %v, want %v", ids, want)
	}
	for _, m := range got {
		if m.ChatID != "a" {
			t.Errorf("message %s has chat %q", m.ID, m.ChatID)
		}
	}
}

func testChatMessagesUnknown(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustNil(t, s.AddMessage(ctx, store.Message{ID: "m", ChatID: "a", Timestamp: at(0)}))

	got, err := s.GetChatMessages(ctx, "nope")
	mustNil(t, err)
	if got == nil || len(got) != 0 {
		t.Errorf("GetChatMessages(unknown) = %#v, want empty", got)
	}
}

func testMarkRead(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustNil(t, s.SetMessages(ctx, []store.Message{
		{ID: "in", ChatID: "c", SenderID: "other", Timestamp: at(0)},
		{ID: "own", ChatID: "c", SenderID: "me", Timestamp: at(time.Second)},
		{ID: "elsewhere", ChatID: "d", SenderID: "other", Timestamp: at(2 * time.Second)},
	}))

	mustNil(t, s.MarkMessagesAsRead(ctx, "c", "me"))

	msgs, err := s.GetMessages(ctx)
	mustNil(t, err)
	wantRead := map[string]bool{"in": true, "own": false, "elsewhere": false}
	for _, m := range msgs {
		if m.Read != wantRead[m.ID] {
			t.Errorf("message %s read = %v, want %v", m.ID, m.Read, wantRead[m.ID])
		}
	}
	if ids := messageIDs(msgs); !slices.Equal(ids, []string{"in", "own", "elsewhere"}) {
		t.Errorf("order changed: %v", ids)
	}

	// Marking again is harmless.
	mustNil(t, s.MarkMessagesAsRead(ctx, "c", "me"))
}

func testSetReplaces(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustNil(t, s.SetContacts(ctx, []store.Contact{{ID: "a"}, {ID: "b"}}))
	mustNil(t, s.SetContacts(ctx, []store.Contact{{ID: "c"}}))
	contacts, err := s.GetContacts(ctx)
	mustNil(t, err)
	if len(contacts) != 1 || contacts[0].ID != "c" {
		t.Errorf("GetContacts() = %+v, want [c]", contacts)
	}

	mustNil(t, s.SetMessages(ctx, []store.Message{{ID: "m", Timestamp: at(0)}}))
	mustNil(t, s.SetMessages(ctx, nil))
	msgs, err := s.GetMessages(ctx)
	mustNil(t, err)
	if len(msgs) != 0 {
		t.Errorf("GetMessages() = %+v, want empty", msgs)
	}
}

func testDemoData(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustNil(t, s.InitializeDemoData(ctx))
	want := store.NewDemoData(base)

	u, err := s.GetUser(ctx)
	mustNil(t, err)
	if u == nil || !EqualUser(*u, want.User) {
		t.Errorf("user = %+v, want %+v", u, want.User)
	}
	contacts, err := s.GetContacts(ctx)
	mustNil(t, err)
	if !slices.Equal(contacts, want.Contacts) {
		t.Errorf("contacts = %+v", contacts)
	}
	chats, err := s.GetChats(ctx)
	mustNil(t, err)
	if !equalChats(chats, want.Chats) {
		t.Errorf("chats = %+v", chats)
	}
	msgs, err := s.GetMessages(ctx)
	mustNil(t, err)
	if !equalMessages(msgs, want.Messages) {
		t.Errorf("messages = %+v", msgs)
	}

	chat1, err := s.GetChatMessages(ctx, "chat-1")
	mustNil(t, err)
	if ids := messageIDs(chat1); !slices.Equal(ids, []string{"msg-1", "msg-2"}) {
		t.Errorf("chat-1 messages = %v", ids)
	}
}

func testDemoIdempotent(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustNil(t, s.InitializeDemoData(ctx))
	mustNil(t, s.AddMessage(ctx, store.Message{ID: "extra", ChatID: "chat-1", Timestamp: at(0)}))

	mustNil(t, s.InitializeDemoData(ctx))

	msgs, err := s.GetMessages(ctx)
	mustNil(t, err)
	if len(msgs) != 5 {
		t.Errorf("got %d messages after second init, want 5", len(msgs))
	}
}

func testDemoExistingUser(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustNil(t, s.SetUser(ctx, store.User{ID: "someone", Username: "Someone", LastSeen: at(0)}))

	mustNil(t, s.InitializeDemoData(ctx))

	contacts, err := s.GetContacts(ctx)
	mustNil(t, err)
	if len(contacts) != 0 {
		t.Errorf("demo contacts written despite existing user: %+v", contacts)
	}
	u, err := s.GetUser(ctx)
	mustNil(t, err)
	if u == nil || u.ID != "someone" {
		t.Errorf("user = %+v, want someone", u)
	}
}
