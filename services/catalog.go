package services

import (
	"context"
	"fmt"
	"sort"

	"paper-search/models"
	"paper-search/query"
	"paper-search/storage"

	"go.uber.org/zap"
)

// Catalog answers the read queries of the API against a Store.
// It keeps no per-request state and is safe for concurrent use.
type Catalog struct {
	store storage.Store
	log   *zap.Logger
}

// NewCatalog builds a Catalog. store may be nil when no connection could be
// made at startup; every query then fails with storage.ErrUnavailable.
func NewCatalog(store storage.Store, log *zap.Logger) *Catalog {
	return &Catalog{store: store, log: log}
}

// Available reports whether a store handle exists.
func (c *Catalog) Available() bool {
	return c.store != nil
}

// PaperPage is one window of a paper search.
type PaperPage struct {
	Papers     []PaperView `json:"papers"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int64       `json:"total_pages"`
}

// SearchPapers counts all matches of the filter and returns the requested window
// in listing order.
func (c *Catalog) SearchPapers(ctx context.Context, f query.Filter, page query.Page) (*PaperPage, error) {
	if c.store == nil {
		return nil, storage.ErrUnavailable
	}

	pred := query.Build(f)
	c.log.Info("Searching papers", zap.Stringer("query", pred),
		zap.Int("page", page.Number), zap.Int("limit", page.Limit))

	total, err := c.store.Count(ctx, pred)
	if err != nil {
		return nil, fmt.Errorf("count papers: %w", err)
	}

	papers, err := c.store.Find(ctx, pred, storage.FindOptions{
		Sort:  query.PaperOrder,
		Skip:  page.Skip(),
		Limit: int64(page.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("find papers: %w", err)
	}

	views := make([]PaperView, 0, len(papers))
	for _, p := range papers {
		views = append(views, ShapePaper(p))
	}

	c.log.Info("Papers returned", zap.Int("returned", len(views)), zap.Int64("total", total))
	return &PaperPage{
		Papers:     views,
		Total:      total,
		Page:       page.Number,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(total),
	}, nil
}

// Conferences lists every non-empty conference name in ascending order.
func (c *Catalog) Conferences(ctx context.Context) ([]string, error) {
	if c.store == nil {
		return nil, storage.ErrUnavailable
	}
	values, err := c.store.Distinct(ctx, models.FieldConference, query.And{})
	if err != nil {
		return nil, fmt.Errorf("distinct conferences: %w", err)
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if v.Kind() == models.FieldString && v.Str() != "" {
			out = append(out, v.Str())
		}
	}
	sort.Strings(out)
	return out, nil
}

// Years lists every valid year token, newest first.
func (c *Catalog) Years(ctx context.Context) ([]string, error) {
	if c.store == nil {
		return nil, storage.ErrUnavailable
	}
	values, err := c.store.Distinct(ctx, models.FieldYear, query.And{})
	if err != nil {
		return nil, fmt.Errorf("distinct years: %w", err)
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		y, ok := models.YearToken(v)
		if !ok {
			continue
		}
		if _, dup := seen[y]; dup {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

// SubjectTypes lists the subject types present within the given conferences and years.
// Empty lists leave that dimension unrestricted.
func (c *Catalog) SubjectTypes(ctx context.Context, conferences, years []string) ([]string, error) {
	if c.store == nil {
		return nil, storage.ErrUnavailable
	}
	values, err := c.store.Distinct(ctx, models.FieldSubjects, query.Scope(conferences, years))
	if err != nil {
		return nil, fmt.Errorf("distinct subjects: %w", err)
	}
	return SubjectTypes(values), nil
}

// Ping checks that the store answers.
func (c *Catalog) Ping(ctx context.Context) error {
	if c.store == nil {
		return storage.ErrUnavailable
	}
	return c.store.Ping(ctx)
}

// TotalPapers counts the whole collection.
func (c *Catalog) TotalPapers(ctx context.Context) (int64, error) {
	if c.store == nil {
		return 0, storage.ErrUnavailable
	}
	return c.store.Count(ctx, query.And{})
}
