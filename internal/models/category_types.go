package models

import "time"

// Category defines the struct for the 'categories' table
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Images      ImageList `json:"images" db:"images"`
	Slug        string    `json:"slug" db:"slug"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

var CategorySearchFields = []string{"name", "description"}

func (c *Category) RowKey() string { return c.Slug }

func (c *Category) Field(name string) string {
	switch name {
	case "name":
		return c.Name
	case "description":
		return c.Description
	case "slug":
		return c.Slug
	}
	return ""
}
