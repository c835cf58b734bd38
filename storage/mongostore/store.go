// Package mongostore serves papers from a MongoDB collection.
package mongostore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"paper-search/models"
	"paper-search/query"
	"paper-search/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ storage.Store = (*Store)(nil)

// Open connects and pings the server once. The client pools connections
// and is shared by all requests.
func Open(ctx context.Context, uri, database, collection string, timeout time.Duration) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &Store{client: client, coll: client.Database(database).Collection(collection)}, nil
}

func (s *Store) Count(ctx context.Context, p query.Predicate) (int64, error) {
	return s.coll.CountDocuments(ctx, Filter(p))
}

func (s *Store) Find(ctx context.Context, p query.Predicate, opts storage.FindOptions) ([]models.Paper, error) {
	fo := options.Find().SetProjection(bson.D{{Key: models.FieldID, Value: 0}})
	if len(opts.Sort) > 0 {
		fo.SetSort(Sort(opts.Sort, ""))
	}
	if opts.Skip > 0 {
		fo.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}

	cur, err := s.coll.Find(ctx, Filter(p), fo)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	papers := []models.Paper{}
	for cur.Next(ctx) {
		paper, err := decodePaper(cur.Current)
		if err != nil {
			return nil, err
		}
		papers = append(papers, paper)
	}
	return papers, cur.Err()
}

func (s *Store) Distinct(ctx context.Context, field string, p query.Predicate) ([]models.Field, error) {
	values, err := s.coll.Distinct(ctx, field, Filter(p))
	if err != nil {
		return nil, err
	}
	out := make([]models.Field, 0, len(values))
	for _, v := range values {
		if f := fieldFromValue(v); !f.IsMissing() {
			out = append(out, f)
		}
	}
	return out, nil
}

type groupRow struct {
	ID    bson.RawValue `bson:"_id"`
	Count int64         `bson:"count"`
}

func (s *Store) Group(ctx context.Context, fields []string, order []query.SortKey) ([]storage.GroupCount, error) {
	cur, err := s.coll.Aggregate(ctx, GroupPipeline(fields, order))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []groupRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	groups := make([]storage.GroupCount, 0, len(rows))
	for _, row := range rows {
		key := make([]models.Field, len(fields))
		if len(fields) == 1 {
			key[0] = fieldFromRaw(row.ID)
		} else if doc, ok := row.ID.DocumentOK(); ok {
			for i, f := range fields {
				key[i] = fieldFromRaw(doc.Lookup(f))
			}
		}
		groups = append(groups, storage.GroupCount{Key: key, Count: row.Count})
	}
	return groups, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// decodePaper maps a raw document onto a Paper. Fields outside the schema are
// carried as relaxed extended JSON so they serialize cleanly.
func decodePaper(raw bson.Raw) (models.Paper, error) {
	elems, err := raw.Elements()
	if err != nil {
		return models.Paper{}, err
	}

	var p models.Paper
	var extra bson.D
	for _, e := range elems {
		v := e.Value()
		switch e.Key() {
		case models.FieldTitle, models.FieldAbstract, models.FieldConference, models.FieldSubjects:
			if str, ok := v.StringValueOK(); ok {
				p.SetText(e.Key(), str)
			} else {
				extra = append(extra, bson.E{Key: e.Key(), Value: v})
			}
		case models.FieldYear:
			p.Year = fieldFromRaw(v)
		case models.FieldOrder:
			p.Order = fieldFromRaw(v)
		default:
			extra = append(extra, bson.E{Key: e.Key(), Value: v})
		}
	}
	if len(extra) == 0 {
		return p, nil
	}

	data, err := bson.MarshalExtJSON(extra, false, false)
	if err != nil {
		return models.Paper{}, fmt.Errorf("encode extra fields: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&p.Extra); err != nil {
		return models.Paper{}, fmt.Errorf("decode extra fields: %w", err)
	}
	return p, nil
}

func fieldFromRaw(v bson.RawValue) models.Field {
	switch v.Type {
	case bson.TypeString:
		return models.StringField(v.StringValue())
	case bson.TypeInt32:
		return models.NumberField(float64(v.Int32()))
	case bson.TypeInt64:
		return models.NumberField(float64(v.Int64()))
	case bson.TypeDouble:
		return models.NumberField(v.Double())
	case bson.TypeDecimal128:
		if n, err := strconv.ParseFloat(v.Decimal128().String(), 64); err == nil {
			return models.NumberField(n)
		}
	}
	return models.MissingField()
}

func fieldFromValue(v any) models.Field {
	switch v := v.(type) {
	case string:
		return models.StringField(v)
	case int32:
		return models.NumberField(float64(v))
	case int64:
		return models.NumberField(float64(v))
	case int:
		return models.NumberField(float64(v))
	case float64:
		return models.NumberField(v)
	}
	return models.MissingField()
}
