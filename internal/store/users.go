package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/01moynul/taptosell-admin/internal/models"
)

// UserStore reads and writes the 'users' table.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = "id, name, email, address, images, slug, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Address,
		&u.Images,
		&u.Slug,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns every user, newest first.
func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, nil
}

// Get returns the user with the given slug.
func (s *UserStore) Get(ctx context.Context, slug string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE slug = ?", slug)
	u, err := scanUser(row)
	if err != nil {
		return nil, translateError(err)
	}
	return u, nil
}

func (s *UserStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	return slugExists(ctx, s.db, Users, slug)
}

// Create inserts u and sets its ID.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users
		(name, email, address, images, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	args := []interface{}{
		u.Name,
		u.Email,
		u.Address,
		u.Images,
		u.Slug,
		u.CreatedAt,
		u.UpdatedAt,
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert user: %w", translateError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get new user id: %w", err)
	}
	u.ID = id
	return nil
}

// Update writes every mutable column of u, matched by slug. Callers look the
// record up first: MySQL reports zero affected rows for an unchanged row.
func (s *UserStore) Update(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users
		SET name = ?, email = ?, address = ?, images = ?, updated_at = ?
		WHERE slug = ?`

	if _, err := s.db.ExecContext(ctx, query, u.Name, u.Email, u.Address, u.Images, u.UpdatedAt, u.Slug); err != nil {
		return fmt.Errorf("update user: %w", translateError(err))
	}
	return nil
}

// Delete removes the user with the given slug. ErrNotFound means nothing was deleted.
func (s *UserStore) Delete(ctx context.Context, slug string) error {
	return deleteBySlug(ctx, s.db, Users, slug)
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	return Count(ctx, s.db, Users)
}
