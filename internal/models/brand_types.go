package models

import "time"

// Brand defines the struct for the 'brands' table
type Brand struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Company     string    `json:"company" db:"company"`
	Website     string    `json:"website" db:"website"`
	Description string    `json:"description" db:"description"`
	Images      ImageList `json:"images" db:"images"`
	Slug        string    `json:"slug" db:"slug"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

var BrandSearchFields = []string{"name", "company", "website"}

func (b *Brand) RowKey() string { return b.Slug }

func (b *Brand) Field(name string) string {
	switch name {
	case "name":
		return b.Name
	case "company":
		return b.Company
	case "website":
		return b.Website
	case "description":
		return b.Description
	case "slug":
		return b.Slug
	}
	return ""
}
