package views

// ChatRow is one conversation list entry, already resolved for display.
type ChatRow struct {
	ID       string
	Name     string
	Time     string
	Preview  string
	Unread   int
	Selected bool
}

// MessageRow is one bubble in the conversation window.
type MessageRow struct {
	Content string
	Time    string
	Own     bool
	Read    bool
}

// ContactRow is one contact list entry.
type ContactRow struct {
	ID       string
	Nickname string
	Status   string
}

// defaultContactStatus is shown for contacts without a status.
const defaultContactStatus = "Hey there! I am using WhatsApp"

// noPreview is shown for chats without a last message.
const noPreview = "No messages yet"

// ProfileRow is the signed-in user as shown on the profile page.
type ProfileRow struct {
	ID       string
	Username string
	Status   string
	LastSeen string
}
