// Package pgstore serves papers kept as JSONB documents in PostgreSQL.
package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"paper-search/models"
	"paper-search/query"
	"paper-search/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// paperRecord is the table layout: one JSON document per row.
type paperRecord struct {
	ID  uint   `gorm:"primaryKey"`
	Doc string `gorm:"type:jsonb;not null"`
}

type Store struct {
	db    *gorm.DB
	table string
}

var _ storage.Store = (*Store)(nil)

// Open connects to PostgreSQL and makes sure the documents table exists.
func Open(dsn, table string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := db.Table(table).AutoMigrate(&paperRecord{}); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", table, err)
	}
	return New(db, table), nil
}

func New(db *gorm.DB, table string) *Store {
	return &Store{db: db, table: table}
}

func (s *Store) scoped(ctx context.Context, p query.Predicate) *gorm.DB {
	tx := s.db.WithContext(ctx).Table(s.table)
	if cond, args := Where(p); cond != "" {
		tx = tx.Where(cond, args...)
	}
	return tx
}

func (s *Store) Count(ctx context.Context, p query.Predicate) (int64, error) {
	var n int64
	err := s.scoped(ctx, p).Count(&n).Error
	return n, err
}

func (s *Store) Find(ctx context.Context, p query.Predicate, opts storage.FindOptions) ([]models.Paper, error) {
	tx := s.scoped(ctx, p)
	if len(opts.Sort) > 0 {
		tx = tx.Order(OrderBy(opts.Sort))
	}
	if opts.Skip > 0 {
		tx = tx.Offset(int(opts.Skip))
	}
	if opts.Limit > 0 {
		tx = tx.Limit(int(opts.Limit))
	}

	var docs []string
	if err := tx.Pluck("doc", &docs).Error; err != nil {
		return nil, err
	}

	papers := make([]models.Paper, 0, len(docs))
	for _, doc := range docs {
		var paper models.Paper
		if err := json.Unmarshal([]byte(doc), &paper); err != nil {
			return nil, fmt.Errorf("decode paper: %w", err)
		}
		papers = append(papers, paper)
	}
	return papers, nil
}

func (s *Store) Distinct(ctx context.Context, field string, p query.Predicate) ([]models.Field, error) {
	expr := valueExpr(field)
	var raws []string
	err := s.scoped(ctx, p).
		Where(expr+" IS NOT NULL").
		Distinct(expr).
		Pluck(expr, &raws).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.Field, 0, len(raws))
	for _, raw := range raws {
		var f models.Field
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			return nil, fmt.Errorf("decode %s value: %w", field, err)
		}
		if !f.IsMissing() {
			out = append(out, f)
		}
	}
	return out, nil
}

// Group buckets on the text form of each field, so numeric and string years share a bucket.
func (s *Store) Group(ctx context.Context, fields []string, order []query.SortKey) ([]storage.GroupCount, error) {
	exprs := make([]string, len(fields))
	selects := make([]string, 0, len(fields)+1)
	for i, f := range fields {
		exprs[i] = textExpr(f)
		selects = append(selects, fmt.Sprintf("%s AS k%d", exprs[i], i))
	}
	selects = append(selects, "count(*) AS count")

	tx := s.db.WithContext(ctx).Table(s.table).
		Select(strings.Join(selects, ", ")).
		Group(strings.Join(exprs, ", "))
	if len(order) > 0 {
		tx = tx.Order(OrderBy(order))
	}

	rows, err := tx.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []storage.GroupCount
	for rows.Next() {
		keys := make([]sql.NullString, len(fields))
		dest := make([]any, 0, len(fields)+1)
		for i := range keys {
			dest = append(dest, &keys[i])
		}
		var count int64
		dest = append(dest, &count)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		key := make([]models.Field, len(fields))
		for i, k := range keys {
			if k.Valid {
				key[i] = models.StringField(k.String)
			}
		}
		groups = append(groups, storage.GroupCount{Key: key, Count: count})
	}
	return groups, rows.Err()
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
