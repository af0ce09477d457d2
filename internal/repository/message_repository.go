package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/rtnut/showcase-cms/internal/model"
)

const messageColumns = "id, name, email, phone, content, is_read, created_at"

// MessageRepo stores contact-form submissions.
type MessageRepo struct {
	db *sqlx.DB
}

func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create inserts an unread message and sets its ID.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (name, email, phone, content, is_read) VALUES (?, ?, ?, ?, 0)",
		m.Name, m.Email, m.Phone, m.Content)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	m.IsRead = false
	return nil
}

// List returns every message, newest first. Ties on created_at fall back
// to the id so the order is stable.
func (r *MessageRepo) List(ctx context.Context) ([]model.Message, error) {
	return r.Recent(ctx, 0)
}

// Recent returns up to limit messages, newest first. Zero means all.
func (r *MessageRepo) Recent(ctx context.Context, limit int) ([]model.Message, error) {
	items := []model.Message{}
	q := "SELECT " + messageColumns + " FROM messages ORDER BY created_at DESC, id DESC"
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	err := r.db.SelectContext(ctx, &items, q, args...)
	return items, err
}

// MarkRead flags the message as read. Marking an already read or missing
// message is a no-op.
func (r *MessageRepo) MarkRead(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE messages SET is_read = 1 WHERE id = ?", id)
	return err
}

// Count returns the number of messages.
func (r *MessageRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM messages")
	return n, err
}

// CountUnread returns the number of unread messages.
func (r *MessageRepo) CountUnread(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM messages WHERE is_read = 0")
	return n, err
}
