package tui

import (
	"strings"
	"time"

	"github.com/matheus3301/wpplocal/internal/store"
	"github.com/matheus3301/wpplocal/internal/tui/model"
	"github.com/matheus3301/wpplocal/internal/tui/ui"
	"github.com/matheus3301/wpplocal/internal/tui/views"
)

// chatRows resolves the visible chats for the conversation list.
func chatRows(vm *model.ViewModel, now time.Time) []views.ChatRow {
	selected := vm.SelectedChatID()
	chats := vm.VisibleChats()
	rows := make([]views.ChatRow, 0, len(chats))
	for _, c := range chats {
		row := views.ChatRow{
			ID:       c.ID,
			Name:     vm.ChatName(c),
			Time:     views.FormatTime(c.UpdatedAt, now),
			Unread:   vm.UnreadCount(c),
			Selected: c.ID == selected,
		}
		if c.LastMessage != nil {
			row.Preview = c.LastMessage.Content
		}
		rows = append(rows, row)
	}
	return rows
}

// messageRows turns a chat's messages into bubbles; the user's own are marked.
func messageRows(msgs []store.Message, user *store.User) []views.MessageRow {
	rows := make([]views.MessageRow, 0, len(msgs))
	for _, m := range msgs {
		rows = append(rows, views.MessageRow{
			Content: m.Content,
			Time:    m.Timestamp.Local().Format("15:04"),
			Own:     user != nil && m.SenderID == user.ID,
			Read:    m.Read,
		})
	}
	return rows
}

func contactRows(vm *model.ViewModel, query string) []views.ContactRow {
	contacts := vm.VisibleContacts(query)
	rows := make([]views.ContactRow, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, views.ContactRow{
			ID:       c.ID,
			Nickname: c.Nickname,
			Status:   c.Status,
		})
	}
	return rows
}

func profileRow(user *store.User, now time.Time) *views.ProfileRow {
	if user == nil {
		return nil
	}
	row := &views.ProfileRow{
		ID:       user.ID,
		Username: user.Username,
		Status:   user.Status,
	}
	if !user.LastSeen.IsZero() {
		row.LastSeen = views.FormatTime(user.LastSeen, now)
	}
	return row
}

// profileData summarizes the snapshot for the header. nil until a user loads.
func profileData(vm *model.ViewModel, profile string) *ui.ProfileData {
	user := vm.User()
	if user == nil {
		return nil
	}
	chats := vm.Chats()
	unread := 0
	for _, c := range chats {
		unread += vm.UnreadCount(c)
	}
	return &ui.ProfileData{
		Profile:      profile,
		Username:     user.Username,
		Status:       user.Status,
		ChatCount:    len(chats),
		ContactCount: len(vm.Contacts()),
		UnreadCount:  unread,
	}
}

// chatDetails describes the chat with the given id, or nil if it is unknown.
func chatDetails(vm *model.ViewModel, chatID string, now time.Time) *views.ChatDetails {
	if chatID == "" {
		return nil
	}
	var chat *store.Chat
	for _, c := range vm.Chats() {
		if c.ID == chatID {
			chat = &c
			break
		}
	}
	if chat == nil {
		return nil
	}

	names := make(map[string]string)
	for _, c := range vm.Contacts() {
		if c.Nickname != "" {
			names[c.ID] = c.Nickname
		}
	}
	if u := vm.User(); u != nil {
		names[u.ID] = "You"
	}

	d := &views.ChatDetails{
		ID:      chat.ID,
		Name:    vm.ChatName(*chat),
		IsGroup: chat.IsGroup,
		Unread:  vm.UnreadCount(*chat),
	}
	for _, p := range chat.Participants {
		name, ok := names[p]
		if !ok {
			name = p
		}
		d.Participants = append(d.Participants, name)
	}
	if !chat.UpdatedAt.IsZero() {
		d.LastActive = views.FormatTime(chat.UpdatedAt, now)
	}
	if chat.LastMessage != nil {
		d.LastMessage = chat.LastMessage.Content
	}
	return d
}

// findChat returns the id of the chat whose display name matches name,
// preferring an exact case-insensitive match over a substring match.
func findChat(vm *model.ViewModel, name string) string {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return ""
	}
	partial := ""
	for _, c := range vm.Chats() {
		n := strings.ToLower(vm.ChatName(c))
		if n == q {
			return c.ID
		}
		if partial == "" && strings.Contains(n, q) {
			partial = c.ID
		}
	}
	return partial
}
