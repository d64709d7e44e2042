package tui

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantArgs string
	}{
		{"quit", "quit", ""},
		{"  Q  ", "q", ""},
		{"new Alice Smith", "new", "Alice Smith"},
		{"chat   Family Group  ", "chat", "Family Group"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := ParseCommand(tt.input)
			if cmd.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", cmd.Name, tt.wantName)
			}
			if cmd.Args != tt.wantArgs {
				t.Errorf("Args = %q, want %q", cmd.Args, tt.wantArgs)
			}
		})
	}
}

func TestResolveAliases(t *testing.T) {
	tests := map[string]string{
		"q":        CmdQuit,
		"exit":     CmdQuit,
		"h":        CmdHelp,
		"c":        CmdChats,
		"contacts": CmdContacts,
		"me":       CmdProfile,
		"info":     CmdDetails,
		"r":        CmdReload,
	}
	for alias, want := range tests {
		cmd, err := ParseCommand(alias).Resolve()
		if err != nil {
			t.Errorf("Resolve(%q): %v", alias, err)
			continue
		}
		if cmd.Name != want {
			t.Errorf("Resolve(%q) = %q, want %q", alias, cmd.Name, want)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	for _, input := range []string{"bogus", "new", "new   ", "chat  ", ""} {
		if _, err := ParseCommand(input).Resolve(); err == nil {
			t.Errorf("Resolve(%q) succeeded, want error", input)
		}
	}
}

func TestResolveKeepsArgs(t *testing.T) {
	cmd, err := ParseCommand("add Bob").Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Name != CmdNew || cmd.Args != "Bob" {
		t.Errorf("got %+v, want new Bob", cmd)
	}
}
