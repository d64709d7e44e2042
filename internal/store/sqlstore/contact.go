package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matheus3301/wpplocal/internal/bus"
	"github.com/matheus3301/wpplocal/internal/store"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertContact(ctx context.Context, ex execer, c store.Contact) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO contacts (id, user_id, nickname, status)
		VALUES (?, ?, ?, ?)`,
		c.ID, c.UserID, c.Nickname, c.Status)
	if err != nil {
		return fmt.Errorf("insert contact %q: %w", c.ID, err)
	}
	return nil
}

// GetContacts returns all contacts in insertion order.
func (db *DB) GetContacts(ctx context.Context) ([]store.Contact, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, user_id, nickname, status
		FROM contacts
		ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	contacts := []store.Contact{}
	for rows.Next() {
		var c store.Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Nickname, &c.Status); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// SetContacts replaces every contact in a single transaction.
func (db *DB) SetContacts(ctx context.Context, contacts []store.Contact) error {
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
			return err
		}
		for _, c := range contacts {
			if err := insertContact(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return db.failed("set contacts", fmt.Errorf("set contacts: %w", err))
	}
	db.written(bus.KindContactsWritten, "set contacts", len(contacts))
	return nil
}

// AddContact appends a contact.
func (db *DB) AddContact(ctx context.Context, c store.Contact) error {
	if err := insertContact(ctx, db.db, c); err != nil {
		return db.failed("add contact", err)
	}
	db.written(bus.KindContactsWritten, "add contact", 1)
	return nil
}
