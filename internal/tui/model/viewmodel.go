package model

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/wpplocal/internal/bus"
	"github.com/matheus3301/wpplocal/internal/nav"
	"github.com/matheus3301/wpplocal/internal/store"
	"go.uber.org/zap"
)

// UnknownUser is shown for a 1:1 chat whose counterpart is not a named contact.
const UnknownUser = "Unknown User"

var (
	ErrNoUser         = errors.New("no user profile")
	ErrNoChatSelected = errors.New("no chat selected")
)

// ViewModel holds the client snapshot of the record store and the interaction
// state around it. Every mutation goes to the store and then reloads the
// whole snapshot. Mutations are serialized: the store's writes are
// read-modify-write over whole collections.
type ViewModel struct {
	mu sync.RWMutex
	// writeMu is held across each mutate-and-reload operation.
	writeMu sync.Mutex

	store  store.Store
	nav    *nav.Machine
	bus    *bus.Bus
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
	seed   bool

	user           *store.User
	contacts       []store.Contact
	chats          []store.Chat
	messages       []store.Message
	selectedChatID string
	chatQuery      string
	showChat       bool
}

// NewViewModel creates a view model over s. b and logger may be nil.
func NewViewModel(s store.Store, m *nav.Machine, b *bus.Bus, logger *zap.Logger) *ViewModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = nav.NewMachine(b)
	}
	return &ViewModel{
		store:  s,
		nav:    m,
		bus:    b,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
		seed:   true,
	}
}

// SetClock replaces the clock used for new messages and chats.
func (vm *ViewModel) SetClock(now func() time.Time) { vm.now = now }

// SetIDGenerator replaces the generator for new record ids.
func (vm *ViewModel) SetIDGenerator(newID func() string) { vm.newID = newID }

// SetSeedDemo controls whether Init writes the demo records.
func (vm *ViewModel) SetSeedDemo(seed bool) { vm.seed = seed }

func (vm *ViewModel) changed() {
	vm.bus.Emit(bus.KindModelChanged, nil)
}

// Init seeds the demo data when enabled, loads the snapshot and leaves the
// loading view once a user exists.
func (vm *ViewModel) Init(ctx context.Context) error {
	vm.writeMu.Lock()
	defer vm.writeMu.Unlock()

	if vm.seed {
		if err := vm.store.InitializeDemoData(ctx); err != nil {
			return fmt.Errorf("initialize demo data: %w", err)
		}
	}
	if err := vm.load(ctx); err != nil {
		return err
	}
	if vm.User() != nil && vm.nav.Current() == nav.Loading {
		return vm.nav.Transition(nav.Chats)
	}
	return nil
}

// Load re-reads the full snapshot. A missing user keeps the previously loaded one.
func (vm *ViewModel) Load(ctx context.Context) error {
	vm.writeMu.Lock()
	defer vm.writeMu.Unlock()
	return vm.load(ctx)
}

func (vm *ViewModel) load(ctx context.Context) error {
	user, err := vm.store.GetUser(ctx)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	contacts, err := vm.store.GetContacts(ctx)
	if err != nil {
		return fmt.Errorf("load contacts: %w", err)
	}
	chats, err := vm.store.GetChats(ctx)
	if err != nil {
		return fmt.Errorf("load chats: %w", err)
	}
	messages, err := vm.store.GetMessages(ctx)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	vm.mu.Lock()
	if user != nil {
		vm.user = user
	}
	vm.contacts = contacts
	vm.chats = chats
	vm.messages = messages
	vm.mu.Unlock()

	vm.logger.Debug("snapshot loaded",
		zap.Int("contacts", len(contacts)),
		zap.Int("chats", len(chats)),
		zap.Int("messages", len(messages)),
	)
	vm.bus.Emit(bus.KindReloaded, nil)
	return nil
}

// SelectChat opens a chat and marks its received messages read.
func (vm *ViewModel) SelectChat(ctx context.Context, chatID string) error {
	vm.writeMu.Lock()
	defer vm.writeMu.Unlock()

	vm.mu.Lock()
	vm.selectedChatID = chatID
	vm.showChat = true
	user := vm.user
	vm.mu.Unlock()

	if user == nil {
		vm.changed()
		return nil
	}
	if err := vm.store.MarkMessagesAsRead(ctx, chatID, user.ID); err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return vm.load(ctx)
}

// SendMessage appends a message from the user to the selected chat and
// refreshes the chat's preview. Blank content is ignored.
func (vm *ViewModel) SendMessage(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	vm.writeMu.Lock()
	defer vm.writeMu.Unlock()

	vm.mu.RLock()
	chatID := vm.selectedChatID
	user := vm.user
	known := slices.ContainsFunc(vm.chats, func(c store.Chat) bool { return c.ID == chatID })
	vm.mu.RUnlock()

	if user == nil {
		return ErrNoUser
	}
	if chatID == "" {
		return ErrNoChatSelected
	}

	msg := store.Message{
		ID:        vm.newID(),
		ChatID:    chatID,
		SenderID:  user.ID,
		Content:   content,
		Timestamp: vm.now(),
	}
	if err := vm.store.AddMessage(ctx, msg); err != nil {
		vm.logger.Error("send message failed", zap.String("chat_id", chatID), zap.Error(err))
		return fmt.Errorf("add message: %w", err)
	}
	if known {
		updatedAt := vm.now()
		if err := vm.store.UpdateChat(ctx, chatID, store.ChatUpdate{
			LastMessage: &msg,
			UpdatedAt:   &updatedAt,
		}); err != nil {
			return fmt.Errorf("update chat: %w", err)
		}
	}
	vm.logger.Debug("message sent", zap.String("chat_id", chatID), zap.String("msg_id", msg.ID))
	return vm.load(ctx)
}

// StartChat opens the 1:1 chat with a contact, creating it when none exists.
func (vm *ViewModel) StartChat(ctx context.Context, contactID string) (chatID string, created bool, err error) {
	vm.writeMu.Lock()
	defer vm.writeMu.Unlock()

	vm.mu.RLock()
	user := vm.user
	var existing *store.Chat
	if user != nil {
		for i := range vm.chats {
			c := vm.chats[i]
			if !c.IsGroup && c.HasParticipant(user.ID) && c.HasParticipant(contactID) {
				existing = &c
				break
			}
		}
	}
	vm.mu.RUnlock()

	if user == nil {
		return "", false, ErrNoUser
	}

	if existing != nil {
		chatID = existing.ID
	} else {
		chat := store.Chat{
			ID:           vm.newID(),
			Participants: []string{user.ID, contactID},
			UpdatedAt:    vm.now(),
		}
		if err := vm.store.AddChat(ctx, chat); err != nil {
			return "", false, fmt.Errorf("add chat: %w", err)
		}
		if err := vm.load(ctx); err != nil {
			return "", false, err
		}
		chatID, created = chat.ID, true
		vm.logger.Debug("chat created", zap.String("chat_id", chatID), zap.String("contact_id", contactID))
	}

	vm.mu.Lock()
	vm.selectedChatID = chatID
	vm.showChat = true
	vm.mu.Unlock()
	if err := vm.nav.Transition(nav.Chats); err != nil {
		return chatID, created, err
	}
	vm.changed()
	return chatID, created, nil
}

// AddContact appends a contact owned by the user. Blank nicknames are
// ignored. It reports whether a contact was written.
func (vm *ViewModel) AddContact(ctx context.Context, nickname string) (bool, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return false, nil
	}

	vm.writeMu.Lock()
	defer vm.writeMu.Unlock()

	user := vm.User()
	if user == nil {
		return false, ErrNoUser
	}
	if err := vm.store.AddContact(ctx, store.Contact{
		ID:       vm.newID(),
		UserID:   user.ID,
		Nickname: nickname,
	}); err != nil {
		return false, fmt.Errorf("add contact: %w", err)
	}
	return true, vm.load(ctx)
}

// UpdateProfile merges u into the user and stores it. A username is applied
// only when non-blank and different; a status only when different. It
// reports whether anything was written.
func (vm *ViewModel) UpdateProfile(ctx context.Context, u store.UserUpdate) (bool, error) {
	vm.writeMu.Lock()
	defer vm.writeMu.Unlock()

	user := vm.User()
	if user == nil {
		return false, ErrNoUser
	}

	if u.Username != nil {
		name := strings.TrimSpace(*u.Username)
		if name == "" || name == user.Username {
			u.Username = nil
		} else {
			u.Username = &name
		}
	}
	if u.Status != nil && *u.Status == user.Status {
		u.Status = nil
	}
	if u == (store.UserUpdate{}) {
		return false, nil
	}

	updated := user.Apply(u)
	if err := vm.store.SetUser(ctx, updated); err != nil {
		return false, fmt.Errorf("set user: %w", err)
	}
	vm.mu.Lock()
	vm.user = &updated
	vm.mu.Unlock()
	vm.changed()
	return true, nil
}

// SetView switches the active view and hides the open conversation.
func (vm *ViewModel) SetView(v nav.View) error {
	if err := vm.nav.Transition(v); err != nil {
		return err
	}
	vm.mu.Lock()
	vm.showChat = false
	vm.mu.Unlock()
	vm.changed()
	return nil
}

// BackToList closes the open conversation.
func (vm *ViewModel) BackToList() {
	vm.mu.Lock()
	vm.showChat = false
	vm.selectedChatID = ""
	vm.mu.Unlock()
	vm.changed()
}

// SetChatQuery sets the conversation list filter.
func (vm *ViewModel) SetChatQuery(q string) {
	vm.mu.Lock()
	vm.chatQuery = q
	vm.mu.Unlock()
	vm.changed()
}

// ChatQuery returns the conversation list filter.
func (vm *ViewModel) ChatQuery() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.chatQuery
}

// ActiveView returns the current top-level view.
func (vm *ViewModel) ActiveView() nav.View {
	return vm.nav.Current()
}

// ShowChat reports whether a conversation is open in front of the list.
func (vm *ViewModel) ShowChat() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.showChat
}

// User returns a copy of the loaded user, or nil.
func (vm *ViewModel) User() *store.User {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if vm.user == nil {
		return nil
	}
	u := *vm.user
	return &u
}

// Contacts returns the loaded contacts.
func (vm *ViewModel) Contacts() []store.Contact {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return slices.Clone(vm.contacts)
}

// Chats returns the loaded chats in stored order.
func (vm *ViewModel) Chats() []store.Chat {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return slices.Clone(vm.chats)
}

// SelectedChatID returns the selected chat id, or "".
func (vm *ViewModel) SelectedChatID() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.selectedChatID
}

// SelectedChat returns the selected chat from the snapshot, or nil.
func (vm *ViewModel) SelectedChat() *store.Chat {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if vm.selectedChatID == "" {
		return nil
	}
	i := slices.IndexFunc(vm.chats, func(c store.Chat) bool { return c.ID == vm.selectedChatID })
	if i < 0 {
		return nil
	}
	c := vm.chats[i]
	return &c
}

// SelectedChatMessages reads the selected chat's messages from the store.
func (vm *ViewModel) SelectedChatMessages(ctx context.Context) ([]store.Message, error) {
	chatID := vm.SelectedChatID()
	if chatID == "" {
		return []store.Message{}, nil
	}
	return vm.store.GetChatMessages(ctx, chatID)
}

// ChatName returns the display name of a chat: the group name, or the
// nickname of the first other participant.
func (vm *ViewModel) ChatName(c store.Chat) string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.chatName(c)
}

func (vm *ViewModel) chatName(c store.Chat) string {
	if c.IsGroup {
		return c.Name
	}
	var self string
	if vm.user != nil {
		self = vm.user.ID
	}
	other := ""
	for _, p := range c.Participants {
		if p != self {
			other = p
			break
		}
	}
	if other == "" {
		return UnknownUser
	}
	for _, ct := range vm.contacts {
		if ct.ID == other {
			if ct.Nickname != "" {
				return ct.Nickname
			}
			break
		}
	}
	return UnknownUser
}

// VisibleChats returns the chats whose display name contains the query,
// most recently updated first.
func (vm *ViewModel) VisibleChats() []store.Chat {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	q := strings.ToLower(vm.chatQuery)
	out := make([]store.Chat, 0, len(vm.chats))
	for _, c := range vm.chats {
		if strings.Contains(strings.ToLower(vm.chatName(c)), q) {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b store.Chat) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return out
}

// VisibleContacts returns the contacts whose nickname contains query.
// Contacts without a nickname never match.
func (vm *ViewModel) VisibleContacts(query string) []store.Contact {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]store.Contact, 0, len(vm.contacts))
	for _, c := range vm.contacts {
		if c.Nickname != "" && strings.Contains(strings.ToLower(c.Nickname), q) {
			out = append(out, c)
		}
	}
	return out
}

// UnreadCount returns the number of unread messages in the chat received
// from other participants.
func (vm *ViewModel) UnreadCount(c store.Chat) int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()

	var self string
	if vm.user != nil {
		self = vm.user.ID
	}
	n := 0
	for _, m := range vm.messages {
		if m.ChatID == c.ID && !m.Read && m.SenderID != self {
			n++
		}
	}
	return n
}
