package ui

import (
	"errors"
	"testing"
	"time"
)

func TestFlashExpires(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFlashModel()
	f.now = func() time.Time { return now }

	if f.Current() != nil {
		t.Fatal("new flash model should be empty")
	}

	f.Info("saved")
	if m := f.Current(); m == nil || m.Text != "saved" || m.Level != FlashInfo {
		t.Fatalf("Current() = %+v, want info 'saved'", m)
	}

	now = now.Add(5 * time.Second)
	if m := f.Current(); m != nil {
		t.Errorf("Current() after expiry = %+v, want nil", m)
	}
}

func TestFlashErrAndWatch(t *testing.T) {
	f := NewFlashModel()
	f.Err(errors.New("boom"))

	select {
	case m := <-f.Watch():
		if m.Text != "boom" || m.Level != FlashErr {
			t.Errorf("watched message = %+v", m)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for flash")
	}
}
