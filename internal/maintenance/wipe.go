// Package maintenance holds one-off data jobs run outside the API process.
package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/01moynul/taptosell-admin/internal/database"
	"github.com/01moynul/taptosell-admin/internal/store"
)

// DefaultCollections are wiped, in order, when no collections are given.
var DefaultCollections = []string{store.Users, store.Brands}

// Session is an open connection the wipe runs against.
type Session interface {
	DeleteAll(ctx context.Context, collection string) (int64, error)
	Close() error
}

// Connector opens a Session.
type Connector interface {
	Connect(ctx context.Context) (Session, error)
}

// Result is the number of records removed from one collection.
type Result struct {
	Collection string
	Deleted    int64
}

// ValidateCollections reports the first name outside store.Collections.
func ValidateCollections(collections []string) error {
	for _, c := range collections {
		if !store.IsCollection(c) {
			return fmt.Errorf("%w: %q", store.ErrUnknownCollection, c)
		}
	}
	return nil
}

// Wipe deletes every record in each collection, one after another. The first
// failing step stops the run. The session is closed whatever happens.
func Wipe(ctx context.Context, conn Connector, collections []string, logger zerolog.Logger) (results []Result, err error) {
	if len(collections) == 0 {
		collections = DefaultCollections
	}
	if err := ValidateCollections(collections); err != nil {
		return nil, err
	}

	session, err := conn.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	logger.Info().Msg("connected to database")

	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Error().Err(cerr).Msg("failed to close database connection")
			err = errors.Join(err, fmt.Errorf("close: %w", cerr))
			return
		}
		logger.Info().Msg("database connection closed")
	}()

	for _, c := range collections {
		n, err := session.DeleteAll(ctx, c)
		if err != nil {
			logger.Error().Err(err).Str("collection", c).Msg("wipe failed")
			return results, fmt.Errorf("wipe %s: %w", c, err)
		}
		logger.Info().Str("collection", c).Int64("deleted", n).Msg("collection wiped")
		results = append(results, Result{Collection: c, Deleted: n})
	}
	return results, nil
}

// MySQLConnector opens the admin MySQL database.
type MySQLConnector struct {
	DSN    string
	Logger zerolog.Logger
}

func (m MySQLConnector) Connect(ctx context.Context) (Session, error) {
	db, err := database.OpenDB(ctx, m.DSN, m.Logger)
	if err != nil {
		return nil, err
	}
	return &mysqlSession{db: db}, nil
}

type mysqlSession struct {
	db *sql.DB
}

func (s *mysqlSession) DeleteAll(ctx context.Context, collection string) (int64, error) {
	return store.DeleteAll(ctx, s.db, collection)
}

func (s *mysqlSession) Close() error {
	return s.db.Close()
}
