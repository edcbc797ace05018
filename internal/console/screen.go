// Package console implements the admin list screens on a terminal: fetch a
// collection once, hold it in a data table, search, page, and run row actions
// against the API.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/01moynul/taptosell-admin/internal/client"
	"github.com/01moynul/taptosell-admin/internal/datatable"
)

// Remote is the part of the API a screen writes through.
type Remote interface {
	Delete(ctx context.Context, collection, slug string) (*client.MutationResponse, error)
	Create(ctx context.Context, collection string, form client.Form) (*client.MutationResponse, error)
}

// Screen is the list screen of one collection.
type Screen[T datatable.Row] struct {
	Collection   string
	Columns      []string
	SearchFields []string
	PageSize     int

	fetch  func(ctx context.Context) ([]T, error)
	remote Remote
	out    io.Writer
	logger zerolog.Logger

	table *datatable.Table[T]
	page  int
}

func newScreen[T datatable.Row](collection string, columns, searchFields []string, fetch func(context.Context) ([]T, error), remote Remote, out io.Writer, logger zerolog.Logger) *Screen[T] {
	return &Screen[T]{
		Collection:   collection,
		Columns:      columns,
		SearchFields: searchFields,
		PageSize:     datatable.DefaultPageSize,
		fetch:        fetch,
		remote:       remote,
		out:          out,
		logger:       logger.With().Str("screen", collection).Logger(),
		page:         1,
	}
}

// Load fetches the collection and rebuilds the table from it.
func (s *Screen[T]) Load(ctx context.Context) error {
	rows, err := s.fetch(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch records")
		return err
	}
	s.table = datatable.New(rows, s.SearchFields, s.PageSize)
	return nil
}

// Table returns the screen's data table. Nil before Load.
func (s *Screen[T]) Table() *datatable.Table[T] {
	return s.table
}

// Search narrows the displayed rows. Rows dropped by a search stay dropped
// until the next Load.
func (s *Screen[T]) Search(query string) {
	if s.table == nil {
		return
	}
	s.table.Search(query)
	s.page = 1
}

func (s *Screen[T]) SortBy(field string, descending bool) {
	if s.table != nil {
		s.table.SortBy(field, descending)
	}
}

// SetPage selects the 1-based page Render shows.
func (s *Screen[T]) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	s.page = n
}

// Render writes the current page as a table.
func (s *Screen[T]) Render() error {
	if s.table == nil {
		return fmt.Errorf("%s: nothing loaded", s.Collection)
	}

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	header := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		header[i] = strings.ToUpper(col)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	rows := s.table.Page(s.page)
	for _, row := range rows {
		cells := make([]string, len(s.Columns))
		for i, col := range s.Columns {
			cells[i] = row.Field(col)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(s.out, "page %d of %d, %d %s\n", s.page, s.table.TotalPages(), s.table.Len(), s.Collection)
	return err
}

// Delete is the row delete action. When the API confirms, the row is removed
// from the displayed list and the screen re-renders. A failed call is logged
// and the list is left as it was; nothing is retried.
func (s *Screen[T]) Delete(ctx context.Context, slug string) error {
	resp, err := s.remote.Delete(ctx, s.Collection, slug)
	if err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("delete failed")
		return err
	}
	s.logger.Info().Str("slug", slug).Msg(resp.Message)

	if s.table != nil {
		s.table.Remove(slug)
		return s.Render()
	}
	return nil
}

// Create submits the add form. On success the screen goes back to the
// listing: it re-fetches the collection and renders the first page.
func (s *Screen[T]) Create(ctx context.Context, form client.Form) error {
	resp, err := s.remote.Create(ctx, s.Collection, form)
	if err != nil {
		s.logger.Error().Err(err).Msg("create failed")
		return err
	}
	s.logger.Info().Msg(resp.Message)

	if err := s.Load(ctx); err != nil {
		return err
	}
	s.page = 1
	return s.Render()
}
