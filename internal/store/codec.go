package store

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// isoMillis is the date form written for every timestamp field: UTC with
// millisecond precision, as produced by JavaScript's Date.toJSON.
const isoMillis = "2006-01-02T15:04:05.000Z"

type userRecord struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
	Status    string `json:"status"`
	LastSeen  string `json:"lastSeen"`
}

type contactRecord struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Nickname string `json:"nickname,omitempty"`
	Status   string `json:"status,omitempty"`
}

type chatRecord struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	IsGroup      bool           `json:"isGroup"`
	Participants []string       `json:"participants"`
	LastMessage  *messageRecord `json:"lastMessage,omitempty"`
	UpdatedAt    string         `json:"updatedAt"`
}

type messageRecord struct {
	ID        string `json:"id"`
	ChatID    string `json:"chatId"`
	SenderID  string `json:"senderId"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
}

// FormatTime renders t in the stored date form.
func FormatTime(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// ParseTime parses a stored date. Any RFC 3339 timestamp is accepted.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %v", ErrDecode, s, err)
	}
	return t.UTC(), nil
}

func toMessageRecord(m Message) messageRecord {
	return messageRecord{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Timestamp: FormatTime(m.Timestamp),
		Read:      m.Read,
	}
}

func (r messageRecord) message() (Message, error) {
	ts, err := ParseTime(r.Timestamp)
	if err != nil {
		return Message{}, fmt.Errorf("message %q timestamp: %w", r.ID, err)
	}
	return Message{
		ID:        r.ID,
		ChatID:    r.ChatID,
		SenderID:  r.SenderID,
		Content:   r.Content,
		Timestamp: ts,
		Read:      r.Read,
	}, nil
}

// MarshalMessage encodes a single message in the stored record form.
func MarshalMessage(m Message) ([]byte, error) {
	return json.Marshal(toMessageRecord(m))
}

// UnmarshalMessage decodes a message produced by MarshalMessage.
func UnmarshalMessage(data []byte) (Message, error) {
	var r messageRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return Message{}, fmt.Errorf("%w: message: %v", ErrDecode, err)
	}
	return r.message()
}

func encodeUser(u User) (string, error) {
	b, err := json.Marshal(userRecord{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		Status:    u.Status,
		LastSeen:  FormatTime(u.LastSeen),
	})
	return string(b), err
}

// decodeUser returns nil for a JSON null.
func decodeUser(data string) (*User, error) {
	var r *userRecord
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, KeyUser, err)
	}
	if r == nil {
		return nil, nil
	}
	lastSeen, err := ParseTime(r.LastSeen)
	if err != nil {
		return nil, fmt.Errorf("user lastSeen: %w", err)
	}
	return &User{
		ID:        r.ID,
		Username:  r.Username,
		AvatarURL: r.AvatarURL,
		Status:    r.Status,
		LastSeen:  lastSeen,
	}, nil
}

func encodeContacts(contacts []Contact) (string, error) {
	recs := make([]contactRecord, 0, len(contacts))
	for _, c := range contacts {
		recs = append(recs, contactRecord(c))
	}
	b, err := json.Marshal(recs)
	return string(b), err
}

func decodeContacts(data string) ([]Contact, error) {
	var recs []contactRecord
	if err := json.Unmarshal([]byte(data), &recs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, KeyContacts, err)
	}
	contacts := make([]Contact, 0, len(recs))
	for _, r := range recs {
		contacts = append(contacts, Contact(r))
	}
	return contacts, nil
}

func encodeChats(chats []Chat) (string, error) {
	recs := make([]chatRecord, 0, len(chats))
	for _, c := range chats {
		r := chatRecord{
			ID:           c.ID,
			Name:         c.Name,
			IsGroup:      c.IsGroup,
			Participants: c.Participants,
			UpdatedAt:    FormatTime(c.UpdatedAt),
		}
		if r.Participants == nil {
			r.Participants = []string{}
		}
		if c.LastMessage != nil {
			m := toMessageRecord(*c.LastMessage)
			r.LastMessage = &m
		}
		recs = append(recs, r)
	}
	b, err := json.Marshal(recs)
	return string(b), err
}

func decodeChats(data string) ([]Chat, error) {
	var recs []chatRecord
	if err := json.Unmarshal([]byte(data), &recs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, KeyChats, err)
	}
	chats := make([]Chat, 0, len(recs))
	for _, r := range recs {
		updatedAt, err := ParseTime(r.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("chat %q updatedAt: %w", r.ID, err)
		}
		c := Chat{
			ID:           r.ID,
			Name:         r.Name,
			IsGroup:      r.IsGroup,
			Participants: r.Participants,
			UpdatedAt:    updatedAt,
		}
		if r.LastMessage != nil {
			m, err := r.LastMessage.message()
			if err != nil {
				return nil, fmt.Errorf("chat %q lastMessage: %w", r.ID, err)
			}
			c.LastMessage = &m
		}
		chats = append(chats, c)
	}
	return chats, nil
}

func encodeMessages(msgs []Message) (string, error) {
	recs := make([]messageRecord, 0, len(msgs))
	for _, m := range msgs {
		recs = append(recs, toMessageRecord(m))
	}
	b, err := json.Marshal(recs)
	return string(b), err
}

func decodeMessages(data string) ([]Message, error) {
	var recs []messageRecord
	if err := json.Unmarshal([]byte(data), &recs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, KeyMessages, err)
	}
	msgs := make([]Message, 0, len(recs))
	for _, r := range recs {
		m, err := r.message()
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
