package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/01moynul/taptosell-admin/internal/models"
)

// TeamStore reads and writes the 'teams' table.
type TeamStore struct {
	db *sql.DB
}

func NewTeamStore(db *sql.DB) *TeamStore {
	return &TeamStore{db: db}
}

const teamColumns = "id, name, designation, email, images, slug, created_at, updated_at"

func scanTeamMember(row interface{ Scan(...any) error }) (*models.TeamMember, error) {
	var m models.TeamMember
	if err := row.Scan(&m.ID, &m.Name, &m.Designation, &m.Email, &m.Images, &m.Slug, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns every team member ordered by name.
func (s *TeamStore) List(ctx context.Context) ([]*models.TeamMember, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+teamColumns+" FROM teams ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	members := []*models.TeamMember{}
	for rows.Next() {
		m, err := scanTeamMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team rows: %w", err)
	}
	return members, nil
}

func (s *TeamStore) Get(ctx context.Context, slug string) (*models.TeamMember, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+teamColumns+" FROM teams WHERE slug = ?", slug)
	m, err := scanTeamMember(row)
	if err != nil {
		return nil, translateError(err)
	}
	return m, nil
}

func (s *TeamStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	return slugExists(ctx, s.db, Teams, slug)
}

func (s *TeamStore) Create(ctx context.Context, m *models.TeamMember) error {
	query := `
		INSERT INTO teams
		(name, designation, email, images, slug, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := s.db.ExecContext(ctx, query, m.Name, m.Designation, m.Email, m.Images, m.Slug, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert team member: %w", translateError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get new team member id: %w", err)
	}
	m.ID = id
	return nil
}

func (s *TeamStore) Update(ctx context.Context, m *models.TeamMember) error {
	query := `
		UPDATE teams
		SET name = ?, designation = ?, email = ?, images = ?, updated_at = ?
		WHERE slug = ?`
	if _, err := s.db.ExecContext(ctx, query, m.Name, m.Designation, m.Email, m.Images, m.UpdatedAt, m.Slug); err != nil {
		return fmt.Errorf("update team member: %w", translateError(err))
	}
	return nil
}

func (s *TeamStore) Delete(ctx context.Context, slug string) error {
	return deleteBySlug(ctx, s.db, Teams, slug)
}

func (s *TeamStore) Count(ctx context.Context) (int64, error) {
	return Count(ctx, s.db, Teams)
}
