package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/01moynul/taptosell-admin/internal/models"
)

// CategoryStore reads and writes the 'categories' table.
type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = "id, name, description, images, slug, created_at, updated_at"

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Images, &c.Slug, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryStore) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+categoryColumns+" FROM categories ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return categories, nil
}

func (s *CategoryStore) Get(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE slug = ?", slug)
	c, err := scanCategory(row)
	if err != nil {
		return nil, translateError(err)
	}
	return c, nil
}

func (s *CategoryStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	return slugExists(ctx, s.db, Categories, slug)
}

func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	query := `INSERT INTO categories (name, description, images, slug, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	result, err := s.db.ExecContext(ctx, query, c.Name, c.Description, c.Images, c.Slug, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", translateError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get new category id: %w", err)
	}
	c.ID = id
	return nil
}

func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	query := `UPDATE categories SET name = ?, description = ?, images = ?, updated_at = ? WHERE slug = ?`
	if _, err := s.db.ExecContext(ctx, query, c.Name, c.Description, c.Images, c.UpdatedAt, c.Slug); err != nil {
		return fmt.Errorf("update category: %w", translateError(err))
	}
	return nil
}

func (s *CategoryStore) Delete(ctx context.Context, slug string) error {
	return deleteBySlug(ctx, s.db, Categories, slug)
}

func (s *CategoryStore) Count(ctx context.Context) (int64, error) {
	return Count(ctx, s.db, Categories)
}
