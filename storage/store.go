package storage

import (
	"context"
	"errors"

	"paper-search/models"
	"paper-search/query"
)

var (
	// ErrUnavailable means no store connection was established.
	ErrUnavailable = errors.New("database connection failed")
	// ErrUnknownDriver is returned for an unsupported STORE_DRIVER value.
	ErrUnknownDriver = errors.New("unknown store driver")
)

// FindOptions controls ordering and windowing of Find. Limit 0 returns all matches.
type FindOptions struct {
	Sort  []query.SortKey
	Skip  int64
	Limit int64
}

// GroupCount is one bucket of a grouping query. Key is aligned with the grouped fields.
type GroupCount struct {
	Key   []models.Field
	Count int64
}

// Store is the read-only document store the catalog runs against.
// Implementations must be safe for concurrent use.
type Store interface {
	Count(ctx context.Context, p query.Predicate) (int64, error)
	Find(ctx context.Context, p query.Predicate, opts FindOptions) ([]models.Paper, error)
	Distinct(ctx context.Context, field string, p query.Predicate) ([]models.Field, error)
	Group(ctx context.Context, fields []string, sort []query.SortKey) ([]GroupCount, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
