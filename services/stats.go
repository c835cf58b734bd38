package services

import (
	"context"
	"fmt"

	"paper-search/models"
	"paper-search/query"
	"paper-search/storage"
)

// GroupStat is one bucket of a statistics grouping.
type GroupStat struct {
	ID    any   `json:"_id"`
	Count int64 `json:"count"`
}

// Stats summarizes the whole collection.
type Stats struct {
	TotalPapers         int64       `json:"total_papers"`
	ConferenceStats     []GroupStat `json:"conference_stats"`
	YearStats           []GroupStat `json:"year_stats"`
	ConferenceYearStats []GroupStat `json:"conference_year_stats"`
}

var (
	byConference     = []string{models.FieldConference}
	byYear           = []string{models.FieldYear}
	byConferenceYear = []string{models.FieldConference, models.FieldYear}

	conferenceAsc = query.SortKey{Field: models.FieldConference}
	yearDesc      = query.SortKey{Field: models.FieldYear, Descending: true}
)

// Stats counts papers per conference, per year and per conference and year.
// No filter applies; the numbers always cover the full collection.
func (c *Catalog) Stats(ctx context.Context) (*Stats, error) {
	if c.store == nil {
		return nil, storage.ErrUnavailable
	}

	total, err := c.store.Count(ctx, query.And{})
	if err != nil {
		return nil, fmt.Errorf("count papers: %w", err)
	}

	confs, err := c.store.Group(ctx, byConference, []query.SortKey{conferenceAsc})
	if err != nil {
		return nil, fmt.Errorf("group by conference: %w", err)
	}
	years, err := c.store.Group(ctx, byYear, []query.SortKey{yearDesc})
	if err != nil {
		return nil, fmt.Errorf("group by year: %w", err)
	}
	pairs, err := c.store.Group(ctx, byConferenceYear, []query.SortKey{conferenceAsc, yearDesc})
	if err != nil {
		return nil, fmt.Errorf("group by conference and year: %w", err)
	}

	return &Stats{
		TotalPapers:         total,
		ConferenceStats:     shapeGroups(confs, byConference),
		YearStats:           shapeGroups(years, byYear),
		ConferenceYearStats: shapeGroups(pairs, byConferenceYear),
	}, nil
}

func shapeGroups(groups []storage.GroupCount, fields []string) []GroupStat {
	out := make([]GroupStat, 0, len(groups))
	for _, g := range groups {
		var id any
		if len(fields) == 1 {
			id = groupKey(fields[0], g.Key[0])
		} else {
			key := make(map[string]any, len(fields))
			for i, f := range fields {
				key[f] = groupKey(f, g.Key[i])
			}
			id = key
		}
		out = append(out, GroupStat{ID: id, Count: g.Count})
	}
	return out
}

// groupKey renders a bucket key; missing values stay null and years become strings.
func groupKey(field string, v models.Field) any {
	switch {
	case v.IsMissing():
		return nil
	case field == models.FieldYear:
		return models.NormalizeYear(v)
	case v.Kind() == models.FieldNumber:
		return v.Num()
	default:
		return v.Str()
	}
}
