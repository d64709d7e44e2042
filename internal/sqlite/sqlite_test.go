package sqlite

import (
	"path/filepath"
	"testing"
)

func TestMigrateAppliesOnFreshDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, first, err := OpenMigrated(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if !first.Changed {
		t.Error("first Migrate() should report Changed=true")
	}

	// Running again must be a no-op.
	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != SchemaVersion {
		t.Errorf("version = %d, want %d (kv + records)", result.Version, SchemaVersion)
	}
	if result.Dirty {
		t.Error("schema left dirty")
	}
}

// TestMigrateSchemaHasRequiredColumns verifies the migrations create every
// column the key-value driver and the indexed record store write to.
func TestMigrateSchemaHasRequiredColumns(t *testing.T) {
	db, _, err := OpenMigrated(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	requiredOps := []struct {
		desc  string
		query string
		args  []any
	}{
		{"set kv item", "INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)", []any{"whatsapp_user", "{}", 1000}},
		{"insert user", "INSERT INTO users (id, username, avatar_url, status, last_seen) VALUES (?, ?, ?, ?, ?)", []any{"user-1", "Bhanu", "", "Available", 1000}},
		{"insert contact", "INSERT INTO contacts (id, user_id, nickname, status) VALUES (?, ?, ?, ?)", []any{"user-2", "user-1", "Alice", ""}},
		{"insert duplicate contact id", "INSERT INTO contacts (id, user_id, nickname, status) VALUES (?, ?, ?, ?)", []any{"user-2", "user-1", "Alice again", ""}},
		{"insert chat", "INSERT INTO chats (id, name, is_group, last_message, updated_at) VALUES (?, ?, ?, ?, ?)", []any{"chat-1", "", false, nil, 1000}},
		{"insert participant", "INSERT INTO chat_participants (chat_seq, position, user_id) VALUES (?, ?, ?)", []any{1, 0, "user-1"}},
		{"insert message", "INSERT INTO messages (id, chat_id, sender_id, content, timestamp, read) VALUES (?, ?, ?, ?, ?, ?)", []any{"msg-1", "chat-1", "user-2", "hi", 1000, false}},
	}

	for _, op := range requiredOps {
		t.Run(op.desc, func(t *testing.T) {
			if _, err := db.Exec(op.query, op.args...); err != nil {
				t.Fatalf("%s failed: %v", op.desc, err)
			}
		})
	}
}

func TestOpenFailsOnBadPath(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "test.db")); err == nil {
		t.Error("Open() expected error for missing parent directory")
	}
}
