package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/matheus3301/wpplocal/internal/app"
	"github.com/matheus3301/wpplocal/internal/profile"
	"github.com/matheus3301/wpplocal/internal/store"
	"github.com/matheus3301/wpplocal/internal/tui/model"
)

// cli runs one wppctl command against an opened store.
type cli struct {
	backend *app.Backend
	vm      *model.ViewModel
	out     io.Writer
	json    bool
}

type userOut struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Status    string `json:"status"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	LastSeen  string `json:"lastSeen"`
}

type contactOut struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname,omitempty"`
	Status   string `json:"status,omitempty"`
}

type chatOut struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsGroup   bool   `json:"isGroup"`
	UpdatedAt string `json:"updatedAt"`
	Unread    int    `json:"unread"`
	Preview   string `json:"preview,omitempty"`
}

type messageOut struct {
	ID        string `json:"id"`
	SenderID  string `json:"senderId"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
}

func (c *cli) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	need := func(n int, usage string) error {
		if len(rest) < n {
			return fmt.Errorf("usage: wppctl %s", usage)
		}
		return nil
	}

	if cmd == "profiles" {
		return c.profiles()
	}
	if cmd != "seed" && cmd != "dump" {
		if err := c.vm.Load(ctx); err != nil {
			return err
		}
	}

	switch cmd {
	case "seed":
		return c.seed(ctx)
	case "user":
		return c.user()
	case "contacts":
		return c.contacts()
	case "chats":
		return c.chats()
	case "messages":
		if err := need(1, "messages <chat-id>"); err != nil {
			return err
		}
		return c.messages(ctx, rest[0])
	case "send":
		if err := need(2, "send <chat-id> <text>"); err != nil {
			return err
		}
		return c.send(ctx, rest[0], strings.Join(rest[1:], " "))
	case "read":
		if err := need(1, "read <chat-id>"); err != nil {
			return err
		}
		return c.read(ctx, rest[0])
	case "start":
		if err := need(1, "start <contact-id>"); err != nil {
			return err
		}
		return c.start(ctx, rest[0])
	case "add-contact":
		if err := need(1, "add-contact <nickname>"); err != nil {
			return err
		}
		return c.addContact(ctx, strings.Join(rest, " "))
	case "dump":
		return c.dump(ctx)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func (c *cli) seed(ctx context.Context) error {
	existing, err := c.backend.Store.GetUser(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		fmt.Fprintf(c.out, "User %s already exists, nothing seeded.\n", existing.Username)
		return nil
	}
	if err := c.backend.Store.InitializeDemoData(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Demo data written.")
	return nil
}

func (c *cli) user() error {
	u := c.vm.User()
	if u == nil {
		return model.ErrNoUser
	}
	if c.json {
		return c.outputJSON(userOut{
			ID:        u.ID,
			Username:  u.Username,
			Status:    u.Status,
			AvatarURL: u.AvatarURL,
			LastSeen:  store.FormatTime(u.LastSeen),
		})
	}
	fmt.Fprintf(c.out, "ID:        %s\n", u.ID)
	fmt.Fprintf(c.out, "Username:  %s\n", u.Username)
	fmt.Fprintf(c.out, "About:     %s\n", u.Status)
	fmt.Fprintf(c.out, "Last seen: %s\n", u.LastSeen.Local().Format(time.DateTime))
	return nil
}

func (c *cli) contacts() error {
	contacts := c.vm.Contacts()
	if c.json {
		out := make([]contactOut, 0, len(contacts))
		for _, ct := range contacts {
			out = append(out, contactOut{ID: ct.ID, Nickname: ct.Nickname, Status: ct.Status})
		}
		return c.outputJSON(out)
	}
	if len(contacts) == 0 {
		fmt.Fprintln(c.out, "No contacts found.")
		return nil
	}
	for _, ct := range contacts {
		fmt.Fprintf(c.out, "%-38s %-20s %s\n", ct.ID, ct.Nickname, ct.Status)
	}
	return nil
}

func (c *cli) chats() error {
	chats := c.vm.VisibleChats()
	out := make([]chatOut, 0, len(chats))
	for _, ch := range chats {
		row := chatOut{
			ID:        ch.ID,
			Name:      c.vm.ChatName(ch),
			IsGroup:   ch.IsGroup,
			UpdatedAt: store.FormatTime(ch.UpdatedAt),
			Unread:    c.vm.UnreadCount(ch),
		}
		if ch.LastMessage != nil {
			row.Preview = ch.LastMessage.Content
		}
		out = append(out, row)
	}
	if c.json {
		return c.outputJSON(out)
	}
	if len(out) == 0 {
		fmt.Fprintln(c.out, "No chats yet.")
		return nil
	}
	for _, r := range out {
		fmt.Fprintf(c.out, "%-38s %-20s %s  unread=%d  %s\n", r.ID, r.Name, r.UpdatedAt, r.Unread, r.Preview)
	}
	return nil
}

func (c *cli) messages(ctx context.Context, chatID string) error {
	msgs, err := c.backend.Store.GetChatMessages(ctx, chatID)
	if err != nil {
		return err
	}
	if c.json {
		out := make([]messageOut, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, messageOut{
				ID:        m.ID,
				SenderID:  m.SenderID,
				Content:   m.Content,
				Timestamp: store.FormatTime(m.Timestamp),
				Read:      m.Read,
			})
		}
		return c.outputJSON(out)
	}
	if len(msgs) == 0 {
		fmt.Fprintln(c.out, "No messages.")
		return nil
	}
	for _, m := range msgs {
		mark := " "
		if m.Read {
			mark = "✓"
		}
		fmt.Fprintf(c.out, "%s %s %-10s %s\n", m.Timestamp.Local().Format(time.DateTime), mark, m.SenderID, m.Content)
	}
	return nil
}

// send opens the chat the way the client does, then sends.
func (c *cli) send(ctx context.Context, chatID, text string) error {
	if c.vm.User() == nil {
		return model.ErrNoUser
	}
	if err := c.vm.SelectChat(ctx, chatID); err != nil {
		return err
	}
	if err := c.vm.SendMessage(ctx, text); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Sent to %s.\n", chatID)
	return nil
}

func (c *cli) read(ctx context.Context, chatID string) error {
	u := c.vm.User()
	if u == nil {
		return model.ErrNoUser
	}
	if err := c.backend.Store.MarkMessagesAsRead(ctx, chatID, u.ID); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Marked %s read.\n", chatID)
	return nil
}

func (c *cli) start(ctx context.Context, contactID string) error {
	chatID, created, err := c.vm.StartChat(ctx, contactID)
	if err != nil {
		return err
	}
	if c.json {
		return c.outputJSON(map[string]any{"chatId": chatID, "created": created})
	}
	if created {
		fmt.Fprintf(c.out, "Created chat %s\n", chatID)
	} else {
		fmt.Fprintf(c.out, "Existing chat %s\n", chatID)
	}
	return nil
}

func (c *cli) addContact(ctx context.Context, nickname string) error {
	if strings.TrimSpace(nickname) == "" {
		return fmt.Errorf("nickname must not be blank")
	}
	if _, err := c.vm.AddContact(ctx, nickname); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Added contact %s.\n", strings.TrimSpace(nickname))
	return nil
}

func (c *cli) dump(ctx context.Context) error {
	if c.backend.KV == nil {
		return fmt.Errorf("dump needs the snapshot layout, store is %q", c.backend.Layout)
	}
	keys, err := c.backend.KV.Keys(ctx)
	if err != nil {
		return err
	}
	values := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		v, ok, err := c.backend.KV.GetItem(ctx, k)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if c.json {
			if json.Valid([]byte(v)) {
				values[k] = json.RawMessage(v)
			} else {
				quoted, _ := json.Marshal(v)
				values[k] = quoted
			}
			continue
		}
		fmt.Fprintf(c.out, "%s = %s\n", k, v)
	}
	if c.json {
		return c.outputJSON(values)
	}
	return nil
}

func (c *cli) profiles() error {
	names, err := profile.List()
	if err != nil {
		return err
	}
	if c.json {
		if names == nil {
			names = []string{}
		}
		return c.outputJSON(names)
	}
	if len(names) == 0 {
		fmt.Fprintln(c.out, "No profiles found.")
		return nil
	}
	for _, n := range names {
		fmt.Fprintf(c.out, "%-20s %s\n", n, profile.Dir(n))
	}
	return nil
}

func (c *cli) outputJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	_, err = fmt.Fprintf(c.out, "%s\n", data)
	return err
}
