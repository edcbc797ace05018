// Package datatable is the in-memory grid behind every list screen: a
// client-side copy of a fetched collection with search, sorting, pagination
// and row removal.
package datatable

import (
	"sort"
	"strings"
)

// DefaultPageSize is used when a table is built with a page size below 1.
const DefaultPageSize = 10

// Row is a record the table can display. RowKey is the slug used by row actions.
type Row interface {
	RowKey() string
	Field(name string) string
}

// Table holds the rows currently rendered by a list screen.
//
// Search narrows the rows in place: rows that do not match are dropped from
// the table and only come back after Reload.
type Table[T Row] struct {
	rows     []T
	fields   []string
	pageSize int
}

// New builds a table over a copy of rows. fields is the fixed set of fields
// Search matches against.
func New[T Row](rows []T, fields []string, pageSize int) *Table[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	t := &Table[T]{
		fields:   append([]string(nil), fields...),
		pageSize: pageSize,
	}
	t.Reload(rows)
	return t
}

// Reload replaces the table contents with a fresh copy of rows.
func (t *Table[T]) Reload(rows []T) {
	t.rows = append(make([]T, 0, len(rows)), rows...)
}

// Rows returns the rows currently held by the table.
func (t *Table[T]) Rows() []T {
	return append(make([]T, 0, len(t.rows)), t.rows...)
}

// Len returns the number of rows currently held.
func (t *Table[T]) Len() int {
	return len(t.rows)
}

// Search keeps only the rows where at least one searched field contains query,
// ignoring case. Only the empty query keeps every row; whitespace is matched
// literally.
func (t *Table[T]) Search(query string) {
	q := strings.ToLower(query)
	if q == "" {
		return
	}

	kept := t.rows[:0]
	for _, row := range t.rows {
		if t.matches(row, q) {
			kept = append(kept, row)
		}
	}
	// Clear the tail so dropped rows can be collected.
	var zero T
	for i := len(kept); i < len(t.rows); i++ {
		t.rows[i] = zero
	}
	t.rows = kept
}

func (t *Table[T]) matches(row T, q string) bool {
	for _, f := range t.fields {
		if strings.Contains(strings.ToLower(row.Field(f)), q) {
			return true
		}
	}
	return false
}

// SortBy orders the rows by a field, case-insensitively. The sort is stable so
// rows with equal values keep their fetched order.
func (t *Table[T]) SortBy(field string, descending bool) {
	sort.SliceStable(t.rows, func(i, j int) bool {
		a := strings.ToLower(t.rows[i].Field(field))
		b := strings.ToLower(t.rows[j].Field(field))
		if descending {
			return a > b
		}
		return a < b
	})
}

// Remove drops the row with the given key and reports whether it was present.
func (t *Table[T]) Remove(key string) bool {
	for i, row := range t.rows {
		if row.RowKey() == key {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the row with the given key.
func (t *Table[T]) Find(key string) (T, bool) {
	for _, row := range t.rows {
		if row.RowKey() == key {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// PageSize returns the number of rows per page.
func (t *Table[T]) PageSize() int {
	return t.pageSize
}

// TotalPages returns the number of pages, at least 1.
func (t *Table[T]) TotalPages() int {
	if len(t.rows) == 0 {
		return 1
	}
	return (len(t.rows) + t.pageSize - 1) / t.pageSize
}

// Page returns the rows on 1-based page n. Pages below 1 are clamped to 1;
// pages past the end are empty.
func (t *Table[T]) Page(n int) []T {
	if n < 1 {
		n = 1
	}
	start := (n - 1) * t.pageSize
	if start >= len(t.rows) {
		return []T{}
	}
	end := start + t.pageSize
	if end > len(t.rows) {
		end = len(t.rows)
	}
	return append([]T(nil), t.rows[start:end]...)
}
