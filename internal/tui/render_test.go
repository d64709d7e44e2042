package tui

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/matheus3301/wpplocal/internal/kv"
	"github.com/matheus3301/wpplocal/internal/store"
	"github.com/matheus3301/wpplocal/internal/tui/model"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)

func demoVM(t *testing.T) *model.ViewModel {
	t.Helper()
	s := store.NewLocal(kv.NewMemory(), nil, nil)
	s.SetClock(func() time.Time { return now })
	vm := model.NewViewModel(s, nil, nil, nil)
	vm.SetClock(func() time.Time { return now })
	if err := vm.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	return vm
}

func TestChatRows(t *testing.T) {
	vm := demoVM(t)
	if err := vm.SelectChat(context.Background(), "chat-2"); err != nil {
		t.Fatal(err)
	}

	rows := chatRows(vm, now)
	var names []string
	for _, r := range rows {
		names = append(names, r.Name)
	}
	if want := []string{"Alice Johnson", "Bob Smith", "Team Project"}; !slices.Equal(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	if !rows[1].Selected || rows[0].Selected {
		t.Errorf("selection = %v/%v, want chat-2 only", rows[0].Selected, rows[1].Selected)
	}
	if rows[1].Unread != 0 {
		t.Errorf("opened chat unread = %d, want 0", rows[1].Unread)
	}
	if rows[0].Preview != "" {
		t.Errorf("chat without last message got preview %q", rows[0].Preview)
	}
	for i, r := range rows {
		if want := now.Add(-time.Duration(i+1) * time.Hour).Format("15:04"); r.Time != want {
			t.Errorf("row %d time = %q, want last update %q", i, r.Time, want)
		}
	}
}

func TestChatRowsShowLastMessage(t *testing.T) {
	vm := demoVM(t)
	ctx := context.Background()
	if err := vm.SelectChat(ctx, "chat-3"); err != nil {
		t.Fatal(err)
	}
	if err := vm.SendMessage(ctx, "see you at 5"); err != nil {
		t.Fatal(err)
	}

	rows := chatRows(vm, now)
	if rows[0].ID != "chat-3" {
		t.Fatalf("first row = %s, want the chat just written to", rows[0].ID)
	}
	if rows[0].Preview != "see you at 5" || rows[0].Time != now.Format("15:04") {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestMessageRows(t *testing.T) {
	user := &store.User{ID: "me"}
	msgs := []store.Message{
		{ID: "1", SenderID: "me", Content: "hi", Timestamp: now, Read: true},
		{ID: "2", SenderID: "you", Content: "yo", Timestamp: now.Add(time.Minute)},
	}
	rows := messageRows(msgs, user)
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if !rows[0].Own || !rows[0].Read || rows[1].Own {
		t.Errorf("rows = %+v", rows)
	}
	if rows[1].Time != now.Add(time.Minute).Format("15:04") {
		t.Errorf("time = %q", rows[1].Time)
	}
	if got := messageRows(msgs, nil); got[0].Own {
		t.Error("no user should own no messages")
	}
}

func TestContactRowsFilter(t *testing.T) {
	vm := demoVM(t)
	rows := contactRows(vm, "o")
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	// Alice Johnson, Bob Smith, Carol White, David Brown, Emma Wilson all contain "o".
	if len(ids) != 5 {
		t.Errorf("ids = %v, want all five", ids)
	}
	if rows := contactRows(vm, "ali"); len(rows) != 1 || rows[0].Nickname != "Alice Johnson" {
		t.Errorf("ali = %+v", rows)
	}
}

func TestProfileData(t *testing.T) {
	vm := demoVM(t)
	d := profileData(vm, "work")
	if d == nil {
		t.Fatal("profileData = nil")
	}
	if d.Profile != "work" || d.Username != "Bhanu Deepa" {
		t.Errorf("data = %+v", d)
	}
	if d.ChatCount != 3 || d.ContactCount != 5 || d.UnreadCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/5/1", d.ChatCount, d.ContactCount, d.UnreadCount)
	}
}

func TestProfileRow(t *testing.T) {
	if profileRow(nil, now) != nil {
		t.Error("nil user should give nil row")
	}
	row := profileRow(&store.User{ID: "u", Username: "Me", Status: "busy", LastSeen: now}, now)
	if row.Username != "Me" || row.Status != "busy" || row.LastSeen != now.Format("15:04") {
		t.Errorf("row = %+v", row)
	}
}

func TestChatDetails(t *testing.T) {
	vm := demoVM(t)

	d := chatDetails(vm, "chat-3", now)
	if d == nil {
		t.Fatal("details = nil")
	}
	want := []string{"You", "Alice Johnson", "Bob Smith", "Carol White"}
	if !slices.Equal(d.Participants, want) {
		t.Errorf("participants = %v, want %v", d.Participants, want)
	}
	if !d.IsGroup || d.Name != "Team Project" {
		t.Errorf("details = %+v", d)
	}

	if chatDetails(vm, "nope", now) != nil {
		t.Error("unknown chat should give nil")
	}
	if chatDetails(vm, "", now) != nil {
		t.Error("empty id should give nil")
	}
}

func TestFindChat(t *testing.T) {
	vm := demoVM(t)
	tests := map[string]string{
		"bob smith": "chat-2",
		"  TEAM ":   "chat-3",
		"alice":     "chat-1",
		"zed":       "",
		"":          "",
	}
	for name, want := range tests {
		if got := findChat(vm, name); got != want {
			t.Errorf("findChat(%q) = %q, want %q", name, got, want)
		}
	}
}
