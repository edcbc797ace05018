package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/01moynul/taptosell-admin/internal/models"
)

// BrandStore reads and writes the 'brands' table.
type BrandStore struct {
	db *sql.DB
}

func NewBrandStore(db *sql.DB) *BrandStore {
	return &BrandStore{db: db}
}

const brandColumns = "id, name, company, website, description, images, slug, created_at, updated_at"

func scanBrand(row interface{ Scan(...any) error }) (*models.Brand, error) {
	var b models.Brand
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Company,
		&b.Website,
		&b.Description,
		&b.Images,
		&b.Slug,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns every brand ordered by name.
func (s *BrandStore) List(ctx context.Context) ([]*models.Brand, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+brandColumns+" FROM brands ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("query brands: %w", err)
	}
	defer rows.Close()

	brands := []*models.Brand{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand row: %w", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand rows: %w", err)
	}
	return brands, nil
}

func (s *BrandStore) Get(ctx context.Context, slug string) (*models.Brand, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+brandColumns+" FROM brands WHERE slug = ?", slug)
	b, err := scanBrand(row)
	if err != nil {
		return nil, translateError(err)
	}
	return b, nil
}

func (s *BrandStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	return slugExists(ctx, s.db, Brands, slug)
}

func (s *BrandStore) Create(ctx context.Context, b *models.Brand) error {
	query := `
		INSERT INTO brands
		(name, company, website, description, images, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	args := []interface{}{
		b.Name,
		b.Company,
		b.Website,
		b.Description,
		b.Images,
		b.Slug,
		b.CreatedAt,
		b.UpdatedAt,
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		// Most likely a unique-key failure on 'slug'
		return fmt.Errorf("insert brand: %w", translateError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get new brand id: %w", err)
	}
	b.ID = id
	return nil
}

func (s *BrandStore) Update(ctx context.Context, b *models.Brand) error {
	query := `
		UPDATE brands
		SET name = ?, company = ?, website = ?, description = ?, images = ?, updated_at = ?
		WHERE slug = ?`

	args := []interface{}{b.Name, b.Company, b.Website, b.Description, b.Images, b.UpdatedAt, b.Slug}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update brand: %w", translateError(err))
	}
	return nil
}

func (s *BrandStore) Delete(ctx context.Context, slug string) error {
	return deleteBySlug(ctx, s.db, Brands, slug)
}

func (s *BrandStore) Count(ctx context.Context) (int64, error) {
	return Count(ctx, s.db, Brands)
}
