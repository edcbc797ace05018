// Package store is the MySQL persistence layer for the admin collections.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrNotFound is returned when no row matches the requested slug or id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique key.
	ErrDuplicate = errors.New("record already exists")
	// ErrUnknownCollection is returned for a table name outside Collections.
	ErrUnknownCollection = errors.New("unknown collection")
)

// Collection names double as table names.
const (
	Users         = "users"
	Brands        = "brands"
	Categories    = "categories"
	Teams         = "teams"
	Notifications = "notifications"
)

// Collections lists every table the admin manages. Table names are never taken
// from user input without passing through this list.
var Collections = []string{Users, Brands, Categories, Teams, Notifications}

// IsCollection reports whether name is a managed table.
func IsCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

const mysqlDuplicateEntry = 1062

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%w: %s", ErrDuplicate, myErr.Message)
	}
	return err
}

func slugExists(ctx context.Context, db *sql.DB, table, slug string) (bool, error) {
	if !IsCollection(table) {
		return false, fmt.Errorf("%w: %q", ErrUnknownCollection, table)
	}
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE slug = ?)", table)
	if err := db.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s slug: %w", table, err)
	}
	return exists, nil
}

func deleteBySlug(ctx context.Context, db *sql.DB, table, slug string) error {
	if !IsCollection(table) {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, table)
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE slug = ?", table)
	result, err := db.ExecContext(ctx, query, slug)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of rows in a managed table.
func Count(ctx context.Context, db *sql.DB, table string) (int64, error) {
	if !IsCollection(table) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCollection, table)
	}
	var n int64
	if err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// DeleteAll removes every row from a managed table and returns how many were
// deleted.
func DeleteAll(ctx context.Context, db *sql.DB, table string) (int64, error) {
	if !IsCollection(table) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCollection, table)
	}
	result, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table))
	if err != nil {
		return 0, fmt.Errorf("delete all from %s: %w", table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check affected rows: %w", err)
	}
	return n, nil
}
