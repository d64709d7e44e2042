package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matheus3301/wpplocal/internal/bus"
	"github.com/matheus3301/wpplocal/internal/store"
	"go.uber.org/zap"
)

// encodeLastMessage returns the JSON column value for a chat's last message.
func encodeLastMessage(m *store.Message) (sql.NullString, error) {
	if m == nil {
		return sql.NullString{}, nil
	}
	b, err := store.MarshalMessage(*m)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode last message: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeLastMessage(col sql.NullString) (*store.Message, error) {
	if !col.Valid {
		return nil, nil
	}
	m, err := store.UnmarshalMessage([]byte(col.String))
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func insertChat(ctx context.Context, tx *sql.Tx, c store.Chat) error {
	last, err := encodeLastMessage(c.LastMessage)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO chats (id, name, is_group, last_message, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.IsGroup, last, millis(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert chat %q: %w", c.ID, err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert chat %q: %w", c.ID, err)
	}
	return insertParticipants(ctx, tx, seq, c.Participants)
}

func insertParticipants(ctx context.Context, tx *sql.Tx, seq int64, participants []string) error {
	for i, p := range participants {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chat_participants (chat_seq, position, user_id)
			VALUES (?, ?, ?)`, seq, i, p); err != nil {
			return fmt.Errorf("insert participant %q: %w", p, err)
		}
	}
	return nil
}

// participants returns the participant lists of every chat keyed by row sequence.
func (db *DB) participants(ctx context.Context) (map[int64][]string, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT chat_seq, user_id
		FROM chat_participants
		ORDER BY chat_seq, position`)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[int64][]string)
	for rows.Next() {
		var (
			seq  int64
			user string
		)
		if err := rows.Scan(&seq, &user); err != nil {
			return nil, err
		}
		out[seq] = append(out[seq], user)
	}
	return out, rows.Err()
}

type chatRow struct {
	seq  int64
	chat store.Chat
}

func scanChat(scan func(dest ...any) error) (chatRow, error) {
	var (
		r         chatRow
		last      sql.NullString
		updatedAt int64
	)
	if err := scan(&r.seq, &r.chat.ID, &r.chat.Name, &r.chat.IsGroup, &last, &updatedAt); err != nil {
		return chatRow{}, err
	}
	m, err := decodeLastMessage(last)
	if err != nil {
		return chatRow{}, fmt.Errorf("chat %q: %w", r.chat.ID, err)
	}
	r.chat.LastMessage = m
	r.chat.UpdatedAt = fromMillis(updatedAt)
	return r, nil
}

// GetChats returns all chats in insertion order.
func (db *DB) GetChats(ctx context.Context) ([]store.Chat, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT seq, id, name, is_group, last_message, updated_at
		FROM chats
		ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chatRows []chatRow
	for rows.Next() {
		r, err := scanChat(rows.Scan)
		if err != nil {
			return nil, err
		}
		chatRows = append(chatRows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	_ = rows.Close()

	parts, err := db.participants(ctx)
	if err != nil {
		return nil, err
	}
	chats := make([]store.Chat, 0, len(chatRows))
	for _, r := range chatRows {
		r.chat.Participants = parts[r.seq]
		chats = append(chats, r.chat)
	}
	return chats, nil
}

// SetChats replaces every chat in a single transaction.
func (db *DB) SetChats(ctx context.Context, chats []store.Chat) error {
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chat_participants`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM chats`); err != nil {
			return err
		}
		for _, c := range chats {
			if err := insertChat(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return db.failed("set chats", fmt.Errorf("set chats: %w", err))
	}
	db.written(bus.KindChatsWritten, "set chats", len(chats))
	return nil
}

// AddChat appends a chat and its participants.
func (db *DB) AddChat(ctx context.Context, c store.Chat) error {
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		return insertChat(ctx, tx, c)
	})
	if err != nil {
		return db.failed("add chat", err)
	}
	db.written(bus.KindChatsWritten, "add chat", 1)
	return nil
}

// UpdateChat merges u into the earliest inserted chat with the given id.
func (db *DB) UpdateChat(ctx context.Context, id string, u store.ChatUpdate) error {
	found := false
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT seq, id, name, is_group, last_message, updated_at
			FROM chats
			WHERE id = ?
			ORDER BY seq ASC
			LIMIT 1`, id)
		r, err := scanChat(row.Scan)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		merged := r.chat.Apply(u)
		last, err := encodeLastMessage(merged.LastMessage)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE chats SET name = ?, is_group = ?, last_message = ?, updated_at = ?
			WHERE seq = ?`,
			merged.Name, merged.IsGroup, last, millis(merged.UpdatedAt), r.seq); err != nil {
			return err
		}
		if u.Participants == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM chat_participants WHERE chat_seq = ?`, r.seq); err != nil {
			return err
		}
		return insertParticipants(ctx, tx, r.seq, merged.Participants)
	})
	if err != nil {
		return db.failed("update chat", fmt.Errorf("update chat %q: %w", id, err))
	}
	if !found {
		db.logger.Debug("update chat: no match", zap.String("chat_id", id))
		return nil
	}
	db.written(bus.KindChatsWritten, "update chat", 1)
	return nil
}
