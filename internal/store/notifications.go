package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/01moynul/taptosell-admin/internal/models"
)

// NotificationStore reads and writes the 'notifications' table.
type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// Create inserts n and sets its ID.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications
		(title, body, link, is_read, created_at)
		VALUES (?, ?, ?, 0, ?)`

	result, err := s.db.ExecContext(ctx, query, n.Title, n.Body, n.Link, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add notification: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get new notification id: %w", err)
	}
	n.ID = id
	return nil
}

// List returns up to limit notifications, unread and newest first.
func (s *NotificationStore) List(ctx context.Context, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, title, body, link, is_read, created_at
		FROM notifications
		ORDER BY is_read ASC, created_at DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", err)
	}
	return notifications, nil
}

// MarkRead flags a notification as read. ErrNotFound means no row had that id.
func (s *NotificationStore) MarkRead(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "UPDATE notifications SET is_read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check affected rows: %w", err)
	}
	// MySQL counts changed rows, so an already-read notification also reports zero.
	if rowsAffected == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM notifications WHERE id = ?)", id).Scan(&exists); err != nil {
			return fmt.Errorf("check notification: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}

func (s *NotificationStore) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications WHERE is_read = 0").Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}
