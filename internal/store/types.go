package store

import (
	"slices"
	"time"
)

// User is the device owner. Exactly one exists once demo data is initialized.
type User struct {
	ID        string
	Username  string
	AvatarURL string
	Status    string
	LastSeen  time.Time
}

// Contact is an entry in the user's address book. ID is the contact's own user
// id; UserID is the owner. Nickname and Status are empty when unset.
type Contact struct {
	ID       string
	UserID   string
	Nickname string
	Status   string
}

// Chat is a 1:1 or group conversation. Name is only meaningful for groups.
// LastMessage is a denormalized copy of the newest message sent through the
// chat window, nil until one is sent.
type Chat struct {
	ID           string
	Name         string
	IsGroup      bool
	Participants []string
	LastMessage  *Message
	UpdatedAt    time.Time
}

// HasParticipant reports whether userID is listed in the chat's participants.
func (c Chat) HasParticipant(userID string) bool {
	return slices.Contains(c.Participants, userID)
}

// Message is a single chat message. Read is only flipped for messages received
// by the user.
type Message struct {
	ID        string
	ChatID    string
	SenderID  string
	Content   string
	Timestamp time.Time
	Read      bool
}

// ChatUpdate is a partial Chat. Nil fields are left untouched by UpdateChat.
type ChatUpdate struct {
	Name         *string
	IsGroup      *bool
	Participants []string
	LastMessage  *Message
	UpdatedAt    *time.Time
}

// IsZero reports whether the update sets no field.
func (u ChatUpdate) IsZero() bool {
	return u.Name == nil && u.IsGroup == nil && u.Participants == nil &&
		u.LastMessage == nil && u.UpdatedAt == nil
}

// Apply returns c with every field set in u overwritten.
func (c Chat) Apply(u ChatUpdate) Chat {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.IsGroup != nil {
		c.IsGroup = *u.IsGroup
	}
	if u.Participants != nil {
		c.Participants = slices.Clone(u.Participants)
	}
	if u.LastMessage != nil {
		m := *u.LastMessage
		c.LastMessage = &m
	}
	if u.UpdatedAt != nil {
		c.UpdatedAt = *u.UpdatedAt
	}
	return c
}

// UserUpdate is a partial User used by the profile editor.
type UserUpdate struct {
	Username  *string
	Status    *string
	AvatarURL *string
	LastSeen  *time.Time
}

// Apply returns usr with every field set in u overwritten.
func (usr User) Apply(u UserUpdate) User {
	if u.Username != nil {
		usr.Username = *u.Username
	}
	if u.Status != nil {
		usr.Status = *u.Status
	}
	if u.AvatarURL != nil {
		usr.AvatarURL = *u.AvatarURL
	}
	if u.LastSeen != nil {
		usr.LastSeen = *u.LastSeen
	}
	return usr
}
