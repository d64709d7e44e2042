package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/matheus3301/wpplocal/internal/bus"
	"github.com/matheus3301/wpplocal/internal/kv"
	"go.uber.org/zap"
)

// Local is the snapshot layout: each entity collection is one JSON value under
// a fixed key. Every call re-reads the snapshot and every mutation rewrites it
// whole.
type Local struct {
	kv     kv.Storage
	bus    *bus.Bus
	logger *zap.Logger
	now    func() time.Time
}

var _ Store = (*Local)(nil)

// NewLocal creates a store over storage. b and logger may be nil.
func NewLocal(storage kv.Storage, b *bus.Bus, logger *zap.Logger) *Local {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Local{
		kv:     storage,
		bus:    b,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock replaces the clock used for demo data timestamps.
func (s *Local) SetClock(now func() time.Time) {
	s.now = now
}

// read returns the raw value under key; ok is false when the key is absent or
// empty.
func (s *Local) read(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.kv.GetItem(ctx, key)
	if err != nil {
		s.logger.Error("read snapshot failed", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return v, ok && v != "", nil
}

func (s *Local) write(ctx context.Context, key, value, kind string, count int) error {
	if err := s.kv.SetItem(ctx, key, value); err != nil {
		s.logger.Error("write snapshot failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("write %s: %w", key, err)
	}
	s.logger.Debug("snapshot written", zap.String("key", key), zap.Int("records", count))
	s.bus.Emit(kind, count)
	return nil
}

func (s *Local) GetUser(ctx context.Context) (*User, error) {
	data, ok, err := s.read(ctx, KeyUser)
	if err != nil || !ok {
		return nil, err
	}
	return decodeUser(data)
}

func (s *Local) SetUser(ctx context.Context, u User) error {
	data, err := encodeUser(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.write(ctx, KeyUser, data, bus.KindUserWritten, 1)
}

func (s *Local) GetContacts(ctx context.Context) ([]Contact, error) {
	data, ok, err := s.read(ctx, KeyContacts)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Contact{}, nil
	}
	return decodeContacts(data)
}

func (s *Local) SetContacts(ctx context.Context, contacts []Contact) error {
	data, err := encodeContacts(contacts)
	if err != nil {
		return fmt.Errorf("encode contacts: %w", err)
	}
	return s.write(ctx, KeyContacts, data, bus.KindContactsWritten, len(contacts))
}

func (s *Local) AddContact(ctx context.Context, c Contact) error {
	contacts, err := s.GetContacts(ctx)
	if err != nil {
		return err
	}
	return s.SetContacts(ctx, append(contacts, c))
}

func (s *Local) GetChats(ctx context.Context) ([]Chat, error) {
	data, ok, err := s.read(ctx, KeyChats)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Chat{}, nil
	}
	return decodeChats(data)
}

func (s *Local) SetChats(ctx context.Context, chats []Chat) error {
	data, err := encodeChats(chats)
	if err != nil {
		return fmt.Errorf("encode chats: %w", err)
	}
	return s.write(ctx, KeyChats, data, bus.KindChatsWritten, len(chats))
}

func (s *Local) AddChat(ctx context.Context, c Chat) error {
	chats, err := s.GetChats(ctx)
	if err != nil {
		return err
	}
	return s.SetChats(ctx, append(chats, c))
}

func (s *Local) UpdateChat(ctx context.Context, id string, u ChatUpdate) error {
	chats, err := s.GetChats(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(chats, func(c Chat) bool { return c.ID == id })
	if i < 0 {
		s.logger.Debug("update chat: no match", zap.String("chat_id", id))
		return nil
	}
	chats[i] = chats[i].Apply(u)
	return s.SetChats(ctx, chats)
}

func (s *Local) GetMessages(ctx context.Context) ([]Message, error) {
	data, ok, err := s.read(ctx, KeyMessages)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Message{}, nil
	}
	return decodeMessages(data)
}

func (s *Local) SetMessages(ctx context.Context, msgs []Message) error {
	data, err := encodeMessages(msgs)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	return s.write(ctx, KeyMessages, data, bus.KindMessagesWritten, len(msgs))
}

func (s *Local) AddMessage(ctx context.Context, m Message) error {
	msgs, err := s.GetMessages(ctx)
	if err != nil {
		return err
	}
	return s.SetMessages(ctx, append(msgs, m))
}

func (s *Local) GetChatMessages(ctx context.Context, chatID string) ([]Message, error) {
	msgs, err := s.GetMessages(ctx)
	if err != nil {
		return nil, err
	}
	return FilterChatMessages(msgs, chatID), nil
}

func (s *Local) MarkMessagesAsRead(ctx context.Context, chatID, userID string) error {
	msgs, err := s.GetMessages(ctx)
	if err != nil {
		return err
	}
	for i := range msgs {
		if msgs[i].ChatID == chatID && msgs[i].SenderID != userID {
			msgs[i].Read = true
		}
	}
	return s.SetMessages(ctx, msgs)
}

func (s *Local) InitializeDemoData(ctx context.Context) error {
	seeded, err := Seed(ctx, s, s.now())
	if err != nil {
		return err
	}
	if seeded {
		s.logger.Info("demo data initialized")
	}
	return nil
}

// FilterChatMessages returns the messages of chatID ordered by timestamp.
// The sort is stable so equal timestamps keep their input order.
func FilterChatMessages(msgs []Message, chatID string) []Message {
	out := make([]Message, 0)
	for _, m := range msgs {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b Message) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return out
}
