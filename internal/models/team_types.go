package models

import "time"

// TeamMember defines the struct for the 'teams' table. Each row is one
// member of the store's staff shown on the Teams screen.
type TeamMember struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Designation string    `json:"designation" db:"designation"`
	Email       string    `json:"email" db:"email"`
	Images      ImageList `json:"images" db:"images"`
	Slug        string    `json:"slug" db:"slug"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

var TeamSearchFields = []string{"name", "designation", "email"}

func (t *TeamMember) RowKey() string { return t.Slug }

func (t *TeamMember) Field(name string) string {
	switch name {
	case "name":
		return t.Name
	case "designation":
		return t.Designation
	case "email":
		return t.Email
	case "slug":
		return t.Slug
	}
	return ""
}
