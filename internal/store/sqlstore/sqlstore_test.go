package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/wpplocal/internal/sqlite"
	"github.com/matheus3301/wpplocal/internal/store"
	"github.com/matheus3301/wpplocal/internal/store/storetest"
)

func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, _, err := sqlite.OpenMigrated(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) store.Store {
		s := New(testDB(t), nil, nil)
		s.SetClock(now)
		return s
	})
}

func TestChatMessagesUseIndex(t *testing.T) {
	db := testDB(t)

	rows, err := db.Query(`EXPLAIN QUERY PLAN
		SELECT id FROM messages WHERE chat_id = ? ORDER BY timestamp ASC, seq ASC`, "c")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = rows.Close() }()

	var plan []string
	for rows.Next() {
		var (
			id, parent, notused int
			detail              string
		)
		if err := rows.Scan(&id, &parent, &notused, &detail); err != nil {
			t.Fatal(err)
		}
		plan = append(plan, detail)
	}
	if !strings.Contains(strings.Join(plan, "\n"), "idx_messages_chat_ts") {
		t.Errorf("query plan does not use idx_messages_chat_ts:\n%s", strings.Join(plan, "\n"))
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	db, _, err := sqlite.OpenMigrated(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := New(db, nil, nil).InitializeDemoData(ctx); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	db, _, err = sqlite.OpenMigrated(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()
	s := New(db, nil, nil)

	u, err := s.GetUser(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if u == nil || u.ID != store.DemoUserID {
		t.Fatalf("user after reopen = %+v", u)
	}
	chats, err := s.GetChats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(chats) != 3 || len(chats[2].Participants) != 4 {
		t.Errorf("chats after reopen = %+v", chats)
	}
}

func TestUpdateChatReplacesParticipants(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	s := New(db, nil, nil)

	if err := s.AddChat(ctx, store.Chat{ID: "g", IsGroup: true, Participants: []string{"a", "b", "c"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateChat(ctx, "g", store.ChatUpdate{Participants: []string{"c", "a"}}); err != nil {
		t.Fatal(err)
	}

	chats, err := s.GetChats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(chats[0].Participants, ","); got != "c,a" {
		t.Errorf("participants = %s, want c,a", got)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM chat_participants`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("participant rows = %d, want 2", n)
	}
}

func TestCorruptLastMessage(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	if _, err := db.Exec(`INSERT INTO chats (id, last_message, updated_at) VALUES ('c', '{broken', 0)`); err != nil {
		t.Fatal(err)
	}

	_, err := New(db, nil, nil).GetChats(ctx)
	if !errors.Is(err, store.ErrDecode) {
		t.Errorf("GetChats err = %v, want ErrDecode", err)
	}
}

func TestClosedDatabase(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	s := New(db, nil, nil)
	_ = db.Close()

	if err := s.AddMessage(ctx, store.Message{ID: "m"}); err == nil {
		t.Error("AddMessage on closed db returned nil")
	}
	if _, err := s.GetChats(ctx); err == nil {
		t.Error("GetChats on closed db returned nil")
	}
}
