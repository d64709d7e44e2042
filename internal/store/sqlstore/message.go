package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matheus3301/wpplocal/internal/bus"
	"github.com/matheus3301/wpplocal/internal/store"
)

func insertMessage(ctx context.Context, ex execer, m store.Message) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO messages (id, chat_id, sender_id, content, timestamp, read)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.ChatID, m.SenderID, m.Content, millis(m.Timestamp), m.Read)
	if err != nil {
		return fmt.Errorf("insert message %q: %w", m.ID, err)
	}
	return nil
}

func (db *DB) queryMessages(ctx context.Context, query string, args ...any) ([]store.Message, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	msgs := []store.Message{}
	for rows.Next() {
		var (
			m  store.Message
			ts int64
		)
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &ts, &m.Read); err != nil {
			return nil, err
		}
		m.Timestamp = fromMillis(ts)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// GetMessages returns every message in insertion order.
func (db *DB) GetMessages(ctx context.Context) ([]store.Message, error) {
	return db.queryMessages(ctx, `
		SELECT id, chat_id, sender_id, content, timestamp, read
		FROM messages
		ORDER BY seq ASC`)
}

// GetChatMessages returns one chat's messages by timestamp using the
// (chat_id, timestamp) index. Ties keep insertion order.
func (db *DB) GetChatMessages(ctx context.Context, chatID string) ([]store.Message, error) {
	return db.queryMessages(ctx, `
		SELECT id, chat_id, sender_id, content, timestamp, read
		FROM messages
		WHERE chat_id = ?
		ORDER BY timestamp ASC, seq ASC`, chatID)
}

// SetMessages replaces every message in a single transaction.
func (db *DB) SetMessages(ctx context.Context, msgs []store.Message) error {
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM messages`); err != nil {
			return err
		}
		for _, m := range msgs {
			if err := insertMessage(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return db.failed("set messages", fmt.Errorf("set messages: %w", err))
	}
	db.written(bus.KindMessagesWritten, "set messages", len(msgs))
	return nil
}

// AddMessage appends a message.
func (db *DB) AddMessage(ctx context.Context, m store.Message) error {
	if err := insertMessage(ctx, db.db, m); err != nil {
		return db.failed("add message", err)
	}
	db.written(bus.KindMessagesWritten, "add message", 1)
	return nil
}

// MarkMessagesAsRead flags the chat's received messages as read in one statement.
func (db *DB) MarkMessagesAsRead(ctx context.Context, chatID, userID string) error {
	res, err := db.db.ExecContext(ctx, `
		UPDATE messages SET read = 1
		WHERE chat_id = ? AND sender_id != ?`, chatID, userID)
	if err != nil {
		return db.failed("mark read", fmt.Errorf("mark messages read in %q: %w", chatID, err))
	}
	n, _ := res.RowsAffected()
	db.written(bus.KindMessagesWritten, "mark read", int(n))
	return nil
}
