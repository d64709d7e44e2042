package app

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/matheus3301/wpplocal/internal/config"
	"github.com/matheus3301/wpplocal/internal/profile"
	"github.com/matheus3301/wpplocal/internal/store"
	"github.com/matheus3301/wpplocal/internal/store/sqlstore"
	"go.uber.org/fx"
)

func testConfig(layout, driver string) *config.Config {
	cfg := config.Default()
	cfg.Store.Layout = layout
	cfg.Store.Driver = driver
	return cfg
}

func TestOpenStoreLayouts(t *testing.T) {
	tests := []struct {
		name    string
		layout  string
		driver  string
		indexed bool
	}{
		{"memory", config.LayoutSnapshot, config.DriverMemory, false},
		{"sqlite snapshot", config.LayoutSnapshot, config.DriverSQLite, false},
		{"sqlite indexed", config.LayoutIndexed, config.DriverSQLite, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WPP_LOCAL_HOME", t.TempDir())
			ctx := context.Background()

			be, err := OpenStore(ctx, testConfig(tt.layout, tt.driver), "test", nil, nil)
			if err != nil {
				t.Fatalf("OpenStore: %v", err)
			}
			defer func() {
				if err := be.Close(); err != nil {
					t.Errorf("Close: %v", err)
				}
			}()

			_, isIndexed := be.Store.(*sqlstore.DB)
			if isIndexed != tt.indexed {
				t.Errorf("store type %T, indexed=%v", be.Store, tt.indexed)
			}
			if (be.KV == nil) != tt.indexed {
				t.Errorf("KV = %T, indexed=%v", be.KV, tt.indexed)
			}
			if err := be.Store.InitializeDemoData(ctx); err != nil {
				t.Fatal(err)
			}
			u, err := be.Store.GetUser(ctx)
			if err != nil || u == nil || u.ID != store.DemoUserID {
				t.Fatalf("GetUser = %+v, %v", u, err)
			}

			if tt.driver == config.DriverSQLite {
				if _, err := os.Stat(profile.AppDBPath("test")); err != nil {
					t.Errorf("database file: %v", err)
				}
			}
		})
	}
}

func TestSQLiteProfileSurvivesReopen(t *testing.T) {
	t.Setenv("WPP_LOCAL_HOME", t.TempDir())
	ctx := context.Background()
	cfg := testConfig(config.LayoutSnapshot, config.DriverSQLite)

	be, err := OpenStore(ctx, cfg, "work", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := be.Store.AddContact(ctx, store.Contact{ID: "c1", UserID: "u1", Nickname: "Zoe"}); err != nil {
		t.Fatal(err)
	}
	if err := be.Close(); err != nil {
		t.Fatal(err)
	}

	be, err = OpenStore(ctx, cfg, "work", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = be.Close() }()
	contacts, err := be.Store.GetContacts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(contacts) != 1 || contacts[0].Nickname != "Zoe" {
		t.Errorf("contacts = %+v", contacts)
	}
}

func TestOpenStoreRejectsInvalidConfig(t *testing.T) {
	_, err := OpenStore(context.Background(), testConfig(config.LayoutIndexed, config.DriverMemory), "x", nil, nil)
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestCloseRunsClosersInReverse(t *testing.T) {
	var order []int
	errBoom := errors.New("boom")
	be := &Backend{closers: []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return errBoom },
	}}
	if err := be.Close(); !errors.Is(err, errBoom) {
		t.Errorf("Close = %v, want boom", err)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("order = %v, want [2 1]", order)
	}
	if err := be.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestModuleGraph(t *testing.T) {
	t.Setenv("WPP_LOCAL_HOME", t.TempDir())
	err := fx.ValidateApp(Module(Params{
		ProfileName: "test",
		Config:      testConfig(config.LayoutSnapshot, config.DriverMemory),
	}))
	if err != nil {
		t.Fatalf("ValidateApp: %v", err)
	}
}
