package models

import (
	"time"
)

// User defines the struct for the 'users' table.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Address   string    `json:"address" db:"address"`
	Images    ImageList `json:"images" db:"images"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// UserSearchFields are the columns the users table filters on.
var UserSearchFields = []string{"name", "email", "address"}

func (u *User) RowKey() string { return u.Slug }

func (u *User) Field(name string) string {
	switch name {
	case "name":
		return u.Name
	case "email":
		return u.Email
	case "address":
		return u.Address
	case "slug":
		return u.Slug
	}
	return ""
}
