package storage

import (
	"context"
	"time"

	"paper-search/models"
	"paper-search/query"
)

// Observer receives the duration and outcome of every store call.
type Observer interface {
	ObserveStore(op string, d time.Duration, err error)
}

type instrumented struct {
	next Store
	obs  Observer
}

// Instrument wraps s so each call is reported to obs.
func Instrument(s Store, obs Observer) Store {
	return &instrumented{next: s, obs: obs}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	i.obs.ObserveStore(op, time.Since(start), err)
}

func (i *instrumented) Count(ctx context.Context, p query.Predicate) (n int64, err error) {
	defer func(start time.Time) { i.observe("count", start, err) }(time.Now())
	return i.next.Count(ctx, p)
}

func (i *instrumented) Find(ctx context.Context, p query.Predicate, opts FindOptions) (papers []models.Paper, err error) {
	defer func(start time.Time) { i.observe("find", start, err) }(time.Now())
	return i.next.Find(ctx, p, opts)
}

func (i *instrumented) Distinct(ctx context.Context, field string, p query.Predicate) (values []models.Field, err error) {
	defer func(start time.Time) { i.observe("distinct", start, err) }(time.Now())
	return i.next.Distinct(ctx, field, p)
}

func (i *instrumented) Group(ctx context.Context, fields []string, sort []query.SortKey) (groups []GroupCount, err error) {
	defer func(start time.Time) { i.observe("group", start, err) }(time.Now())
	return i.next.Group(ctx, fields, sort)
}

func (i *instrumented) Ping(ctx context.Context) (err error) {
	defer func(start time.Time) { i.observe("ping", start, err) }(time.Now())
	return i.next.Ping(ctx)
}

func (i *instrumented) Close(ctx context.Context) error {
	return i.next.Close(ctx)
}
