// Package store is the local record store: the user, their contacts, chats and
// messages. It performs no validation, uniqueness or referential checks; the
// callers keep the records consistent. Concurrent writers race and the last
// write wins.
package store

import (
	"context"
	"errors"
)

// Keys of the four snapshots in the key-value layout.
const (
	KeyUser     = "whatsapp_user"
	KeyContacts = "whatsapp_contacts"
	KeyChats    = "whatsapp_chats"
	KeyMessages = "whatsapp_messages"
)

// ErrDecode is returned (wrapped) when a stored record cannot be decoded.
var ErrDecode = errors.New("decode stored record")

// Store is the record store contract. Collection reads return records in
// insertion order and never return nil slices.
type Store interface {
	// GetUser returns the current user, or nil when none was stored.
	GetUser(ctx context.Context) (*User, error)
	SetUser(ctx context.Context, u User) error

	GetContacts(ctx context.Context) ([]Contact, error)
	SetContacts(ctx context.Context, contacts []Contact) error
	AddContact(ctx context.Context, c Contact) error

	GetChats(ctx context.Context) ([]Chat, error)
	SetChats(ctx context.Context, chats []Chat) error
	AddChat(ctx context.Context, c Chat) error
	// UpdateChat merges u into the first chat with the given id. It writes
	// nothing when no chat matches.
	UpdateChat(ctx context.Context, id string, u ChatUpdate) error

	GetMessages(ctx context.Context) ([]Message, error)
	SetMessages(ctx context.Context, msgs []Message) error
	AddMessage(ctx context.Context, m Message) error
	// GetChatMessages returns the chat's messages ordered by timestamp
	// ascending. Equal timestamps keep insertion order.
	GetChatMessages(ctx context.Context, chatID string) ([]Message, error)
	// MarkMessagesAsRead sets Read on every message in the chat not sent by userID.
	MarkMessagesAsRead(ctx context.Context, chatID, userID string) error

	// InitializeDemoData seeds the demo records unless a user already exists.
	InitializeDemoData(ctx context.Context) error
}
