package views

import (
	"testing"
	"time"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Bhanu Deepa", "BD"},
		{"alice", "A"},
		{"Carol Ann White", "CA"},
		{"  bob   smith ", "BS"},
		{"", ""},
		{"émile zola", "ÉZ"},
	}
	for _, tt := range tests {
		if got := Initials(tt.name); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestAvatarColorStable(t *testing.T) {
	if AvatarColor("Alice Johnson") != AvatarColor("Alice Johnson") {
		t.Error("AvatarColor is not stable")
	}
	for _, n := range []string{"Alice Johnson", "Bob Smith", "Carol White", "David Brown", "Emma Wilson", "Team Project"} {
		c := AvatarColor(n)
		found := false
		for _, p := range avatarPalette {
			if p == c {
				found = true
			}
		}
		if !found {
			t.Errorf("AvatarColor(%q) not in palette", n)
		}
	}
}

func TestFormatTime(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 6, 12, 15, 30, 0, 0, loc) // Thursday
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"earlier today", time.Date(2025, 6, 12, 9, 5, 0, 0, loc), "09:05"},
		{"midnight today", time.Date(2025, 6, 12, 0, 0, 0, 0, loc), "00:00"},
		{"yesterday late", time.Date(2025, 6, 11, 23, 59, 0, 0, loc), "Yesterday"},
		{"three days ago", time.Date(2025, 6, 9, 12, 0, 0, 0, loc), "Monday"},
		{"six days ago", time.Date(2025, 6, 6, 12, 0, 0, 0, loc), "Friday"},
		{"a week ago", time.Date(2025, 6, 5, 12, 0, 0, 0, loc), "05/06/2025"},
		{"last year", time.Date(2024, 12, 25, 8, 0, 0, 0, loc), "25/12/2024"},
		{"future", time.Date(2025, 6, 13, 8, 0, 0, 0, loc), "08:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTime(tt.t, now); got != tt.want {
				t.Errorf("FormatTime = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTimeAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	tests := []struct {
		name string
		t    time.Time
		now  time.Time
		want string
	}{
		// Clocks spring forward on 2025-03-09 and fall back on 2025-11-02.
		{"yesterday before spring forward", time.Date(2025, 3, 9, 10, 0, 0, 0, loc), time.Date(2025, 3, 10, 12, 0, 0, 0, loc), "Yesterday"},
		{"week spanning spring forward", time.Date(2025, 3, 3, 10, 0, 0, 0, loc), time.Date(2025, 3, 10, 0, 30, 0, 0, loc), "03/03/2025"},
		{"six days spanning spring forward", time.Date(2025, 3, 4, 23, 0, 0, 0, loc), time.Date(2025, 3, 10, 0, 30, 0, 0, loc), "Tuesday"},
		{"yesterday before fall back", time.Date(2025, 11, 1, 23, 30, 0, 0, loc), time.Date(2025, 11, 2, 23, 0, 0, 0, loc), "Yesterday"},
		{"today across fall back", time.Date(2025, 11, 2, 0, 30, 0, 0, loc), time.Date(2025, 11, 2, 23, 59, 0, 0, loc), "00:30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTime(tt.t, tt.now); got != tt.want {
				t.Errorf("FormatTime = %q, want %q", got, tt.want)
			}
		})
	}
}
