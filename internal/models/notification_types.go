package models

import (
	"time"
)

// Notification is the model for the 'notifications' table. Rows are written
// by the push worker when a background message is displayed.
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Link      *string   `json:"link,omitempty" db:"link"` // Pointer for NULL
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
