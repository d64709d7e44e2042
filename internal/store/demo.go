package store

import (
	"context"
	"fmt"
	"time"
)

// DemoUserID is the id of the seeded device owner.
const DemoUserID = "user-1"

const demoAvatarURL = "https://images.pexels.com/photos/415829/pexels-photo-415829.jpeg?auto=compress&cs=tinysrgb&w=200"

// DemoData is the record set written by InitializeDemoData.
type DemoData struct {
	User     User
	Contacts []Contact
	Chats    []Chat
	Messages []Message
}

// NewDemoData builds the demo records with timestamps relative to now.
func NewDemoData(now time.Time) DemoData {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }
	return DemoData{
		User: User{
			ID:        DemoUserID,
			Username:  "Bhanu Deepa",
			AvatarURL: demoAvatarURL,
			Status:    "Available",
			LastSeen:  now,
		},
		Contacts: []Contact{
			{ID: "user-2", UserID: DemoUserID, Nickname: "Alice Johnson"},
			{ID: "user-3", UserID: DemoUserID, Nickname: "Bob Smith"},
			{ID: "user-4", UserID: DemoUserID, Nickname: "Carol White"},
			{ID: "user-5", UserID: DemoUserID, Nickname: "David Brown"},
			{ID: "user-6", UserID: DemoUserID, Nickname: "Emma Wilson"},
		},
		Chats: []Chat{
			{ID: "chat-1", Participants: []string{DemoUserID, "user-2"}, UpdatedAt: ago(time.Hour)},
			{ID: "chat-2", Participants: []string{DemoUserID, "user-3"}, UpdatedAt: ago(2 * time.Hour)},
			{
				ID:           "chat-3",
				Name:         "Team Project",
				IsGroup:      true,
				Participants: []string{DemoUserID, "user-2", "user-3", "user-4"},
				UpdatedAt:    ago(3 * time.Hour),
			},
		},
		Messages: []Message{
			{ID: "msg-1", ChatID: "chat-1", SenderID: "user-2", Content: "Hey! How are you doing?", Timestamp: ago(time.Hour), Read: true},
			{ID: "msg-2", ChatID: "chat-1", SenderID: DemoUserID, Content: "I am doing great! Thanks for asking.", Timestamp: ago(3500 * time.Second), Read: true},
			{ID: "msg-3", ChatID: "chat-2", SenderID: "user-3", Content: "Did you complete the assignment?", Timestamp: ago(2 * time.Hour)},
			{ID: "msg-4", ChatID: "chat-3", SenderID: "user-2", Content: "Welcome to the team project group!", Timestamp: ago(3 * time.Hour), Read: true},
		},
	}
}

// Seed writes the demo records into s unless a user is already stored. Store
// implementations call it from InitializeDemoData.
func Seed(ctx context.Context, s Store, now time.Time) (seeded bool, err error) {
	existing, err := s.GetUser(ctx)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	demo := NewDemoData(now)
	if err := s.SetUser(ctx, demo.User); err != nil {
		return false, fmt.Errorf("seed user: %w", err)
	}
	if err := s.SetContacts(ctx, demo.Contacts); err != nil {
		return false, fmt.Errorf("seed contacts: %w", err)
	}
	if err := s.SetChats(ctx, demo.Chats); err != nil {
		return false, fmt.Errorf("seed chats: %w", err)
	}
	if err := s.SetMessages(ctx, demo.Messages); err != nil {
		return false, fmt.Errorf("seed messages: %w", err)
	}
	return true, nil
}
