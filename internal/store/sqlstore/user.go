package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matheus3301/wpplocal/internal/bus"
	"github.com/matheus3301/wpplocal/internal/store"
)

// GetUser returns the single stored user, or nil.
func (db *DB) GetUser(ctx context.Context) (*store.User, error) {
	var (
		u        store.User
		lastSeen int64
	)
	err := db.db.QueryRowContext(ctx, `
		SELECT id, username, avatar_url, status, last_seen
		FROM users LIMIT 1`).
		Scan(&u.ID, &u.Username, &u.AvatarURL, &u.Status, &lastSeen)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.LastSeen = fromMillis(lastSeen)
	return &u, nil
}

// SetUser replaces the stored user.
func (db *DB) SetUser(ctx context.Context, u store.User) error {
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, username, avatar_url, status, last_seen)
			VALUES (?, ?, ?, ?, ?)`,
			u.ID, u.Username, u.AvatarURL, u.Status, millis(u.LastSeen))
		return err
	})
	if err != nil {
		return db.failed("set user", fmt.Errorf("set user: %w", err))
	}
	db.written(bus.KindUserWritten, "set user", 1)
	return nil
}
