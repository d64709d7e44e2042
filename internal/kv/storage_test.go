package kv

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/uuid"
	"github.com/matheus3301/wpplocal/internal/sqlite"
)

func testSQLite(t *testing.T) *SQLite {
	t.Helper()
	db, _, err := sqlite.OpenMigrated(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLite(db)
}

// testRedis connects to the server named by WPP_TEST_REDIS_ADDR, skipping when unset.
func testRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("WPP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("WPP_TEST_REDIS_ADDR not set")
	}
	rdb, err := DialRedis(context.Background(), RedisOptions{Addr: addr})
	if err != nil {
		t.Fatal(err)
	}
	prefix := "wpplocal-test:" + uuid.NewString() + ":"
	r := NewRedis(rdb, prefix)
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := r.Keys(ctx)
		for _, k := range keys {
			_ = r.RemoveItem(ctx, k)
		}
		_ = rdb.Close()
	})
	return r
}

func drivers(t *testing.T) map[string]func(t *testing.T) Storage {
	return map[string]func(t *testing.T) Storage{
		"memory": func(t *testing.T) Storage { return NewMemory() },
		"sqlite": func(t *testing.T) Storage { return testSQLite(t) },
		"redis":  func(t *testing.T) Storage { return testRedis(t) },
	}
}

func TestGetMissingItem(t *testing.T) {
	for name, open := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			v, ok, err := s.GetItem(context.Background(), "whatsapp_user")
			if err != nil {
				t.Fatal(err)
			}
			if ok || v != "" {
				t.Errorf("GetItem(absent) = (%q, %v), want (\"\", false)", v, ok)
			}
		})
	}
}

func TestSetOverwritesWholeValue(t *testing.T) {
	for name, open := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			if err := s.SetItem(ctx, "whatsapp_chats", `[{"id":"chat-1"}]`); err != nil {
				t.Fatal(err)
			}
			if err := s.SetItem(ctx, "whatsapp_chats", `[]`); err != nil {
				t.Fatal(err)
			}

			v, ok, err := s.GetItem(ctx, "whatsapp_chats")
			if err != nil {
				t.Fatal(err)
			}
			if !ok || v != `[]` {
				t.Errorf("GetItem = (%q, %v), want ([], true)", v, ok)
			}
		})
	}
}

func TestEmptyValueIsPresent(t *testing.T) {
	for name, open := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			if err := s.SetItem(ctx, "k", ""); err != nil {
				t.Fatal(err)
			}
			_, ok, err := s.GetItem(ctx, "k")
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				t.Error("empty value reported as absent")
			}
		})
	}
}

func TestRemoveAndKeys(t *testing.T) {
	for name, open := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			for _, k := range []string{"whatsapp_user", "whatsapp_messages", "whatsapp_contacts"} {
				if err := s.SetItem(ctx, k, "x"); err != nil {
					t.Fatal(err)
				}
			}
			if err := s.RemoveItem(ctx, "whatsapp_user"); err != nil {
				t.Fatal(err)
			}
			// Removing twice is fine.
			if err := s.RemoveItem(ctx, "whatsapp_user"); err != nil {
				t.Fatal(err)
			}

			keys, err := s.Keys(ctx)
			if err != nil {
				t.Fatal(err)
			}
			want := []string{"whatsapp_contacts", "whatsapp_messages"}
			if !slices.Equal(keys, want) {
				t.Errorf("Keys() = %v, want %v", keys, want)
			}
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	db, _, err := sqlite.OpenMigrated(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := NewSQLite(db).SetItem(ctx, "whatsapp_user", `{"id":"user-1"}`); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	db, _, err = sqlite.OpenMigrated(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	v, ok, err := NewSQLite(db).GetItem(ctx, "whatsapp_user")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != `{"id":"user-1"}` {
		t.Errorf("GetItem after reopen = (%q, %v)", v, ok)
	}
}

func TestDefaultRedisPrefix(t *testing.T) {
	if got := DefaultRedisPrefix("work"); got != "wpplocal:work:" {
		t.Errorf("DefaultRedisPrefix(work) = %q", got)
	}
}
