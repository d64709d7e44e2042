package tui

import (
	"fmt"
	"strings"
)

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// Known command names after alias resolution.
const (
	CmdChats    = "chats"
	CmdContacts = "contacts"
	CmdProfile  = "profile"
	CmdNew      = "new"
	CmdChat     = "chat"
	CmdDetails  = "details"
	CmdReload   = "reload"
	CmdHelp     = "help"
	CmdQuit     = "quit"
)

var commandAliases = map[string]string{
	"c":        CmdChats,
	"chats":    CmdChats,
	"ct":       CmdContacts,
	"contacts": CmdContacts,
	"p":        CmdProfile,
	"profile":  CmdProfile,
	"me":       CmdProfile,
	"new":      CmdNew,
	"add":      CmdNew,
	"chat":     CmdChat,
	"open":     CmdChat,
	"details":  CmdDetails,
	"info":     CmdDetails,
	"reload":   CmdReload,
	"r":        CmdReload,
	"help":     CmdHelp,
	"h":        CmdHelp,
	"?":        CmdHelp,
	"quit":     CmdQuit,
	"q":        CmdQuit,
	"q!":       CmdQuit,
	"exit":     CmdQuit,
}

// commandsWithArgs must be given a non-empty argument.
var commandsWithArgs = map[string]string{
	CmdNew:  "contact name",
	CmdChat: "chat name",
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

// Resolve maps aliases to the canonical command name and checks arguments.
func (c Command) Resolve() (Command, error) {
	name, ok := commandAliases[c.Name]
	if !ok {
		return c, fmt.Errorf("unknown command %q", c.Name)
	}
	c.Name = name
	if what, needs := commandsWithArgs[name]; needs && c.Args == "" {
		return c, fmt.Errorf(":%s needs a %s", name, what)
	}
	return c, nil
}
