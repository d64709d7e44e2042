package views

import "testing"

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"👍\U0001F3FB", "👍"},
		{"👨‍👩", "👨👩"},
		{"❤️", "❤"},
		{"a\tb", "a b"},
		{"bell\a", "bell"},
		{"two\nlines", "two\nlines"},
		{"[red]not a tag[-]", "[red[]not a tag[-[]"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOneLine(t *testing.T) {
	if got := oneLine("  a\n b\tc  "); got != "a b c" {
		t.Errorf("oneLine = %q", got)
	}
}
