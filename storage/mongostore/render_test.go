package mongostore

import (
	"encoding/json"
	"testing"

	"paper-search/models"
	"paper-search/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFilterEmpty(t *testing.T) {
	assert.Equal(t, bson.D{}, Filter(query.Build(query.Filter{})))
	assert.Equal(t, bson.D{}, Filter(nil))
	assert.Equal(t, bson.D{}, Filter(query.And{}))
}

func TestFilterComposesAllDimensions(t *testing.T) {
	p := query.Build(query.Filter{
		Conferences:    []string{"CVPR"},
		Years:          []string{"2024", "2023"},
		Subjects:       []string{"Main", "Oral"},
		SearchTitle:    "neural",
		SearchAbstract: "c++ graph",
	})

	want := bson.D{
		{Key: "conference", Value: bson.D{{Key: "$in", Value: bson.A{"CVPR"}}}},
		{Key: "year", Value: bson.D{{Key: "$in", Value: bson.A{"2024", "2023", int64(2024), int64(2023)}}}},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "subjects", Value: primitive.Regex{Pattern: "Main", Options: "i"}}},
			bson.D{{Key: "subjects", Value: primitive.Regex{Pattern: "Oral", Options: "i"}}},
		}},
		{Key: "$and", Value: bson.A{
			bson.D{{Key: "title", Value: primitive.Regex{Pattern: "neural", Options: "i"}}},
			bson.D{{Key: "abstract", Value: primitive.Regex{Pattern: `c\+\+`, Options: "i"}}},
			bson.D{{Key: "abstract", Value: primitive.Regex{Pattern: "graph", Options: "i"}}},
		}},
	}
	assert.Equal(t, want, Filter(p))
}

func TestFilterSingleSubjectIsPlainCondition(t *testing.T) {
	got := Filter(query.Build(query.Filter{Subjects: []string{"Workshop"}}))
	assert.Equal(t, bson.D{{Key: "subjects", Value: primitive.Regex{Pattern: "Workshop", Options: "i"}}}, got)
}

func TestFilterFallsBackToAndOnDuplicateKeys(t *testing.T) {
	p := query.And{
		query.Contains{Field: "title", Substring: "a"},
		query.Contains{Field: "title", Substring: "b"},
	}
	got := Filter(p)
	require.Len(t, got, 1)
	assert.Equal(t, "$and", got[0].Key)
}

func TestSort(t *testing.T) {
	assert.Equal(t, bson.D{
		{Key: "year", Value: -1},
		{Key: "conference", Value: 1},
		{Key: "title", Value: 1},
	}, Sort(query.PaperOrder, ""))
}

func TestGroupPipeline(t *testing.T) {
	single := GroupPipeline([]string{"year"}, []query.SortKey{{Field: "year", Descending: true}})
	assert.Equal(t, bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$year"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
	}, single)

	pair := GroupPipeline([]string{"conference", "year"},
		[]query.SortKey{{Field: "conference"}, {Field: "year", Descending: true}})
	assert.Equal(t, bson.D{
		{Key: "_id.conference", Value: 1},
		{Key: "_id.year", Value: -1},
	}, pair[1].(bson.D)[0].Value)
}

func TestDecodePaper(t *testing.T) {
	raw, err := bson.Marshal(bson.D{
		{Key: "title", Value: "Graph Nets"},
		{Key: "conference", Value: "ICCV"},
		{Key: "year", Value: int32(2023)},
		{Key: "order", Value: "abc"},
		{Key: "subjects", Value: "ICCV.2023 - Oral"},
		{Key: "authors", Value: bson.A{"A", "B"}},
		{Key: "meta", Value: bson.D{{Key: "pages", Value: int32(8)}}},
	})
	require.NoError(t, err)

	p, err := decodePaper(raw)
	require.NoError(t, err)

	assert.Equal(t, "Graph Nets", p.Title)
	assert.Equal(t, models.NumberField(2023), p.Year)
	assert.Equal(t, models.StringField("abc"), p.Order)
	assert.Equal(t, []any{"A", "B"}, p.Extra["authors"])
	assert.Equal(t, map[string]any{"pages": json.Number("8")}, p.Extra["meta"])
}

func TestDecodePaperKeepsTextFieldPresence(t *testing.T) {
	raw, err := bson.Marshal(bson.D{
		{Key: "title", Value: "T"},
		{Key: "abstract", Value: ""},
		{Key: "subjects", Value: int32(7)},
	})
	require.NoError(t, err)

	p, err := decodePaper(raw)
	require.NoError(t, err)

	assert.True(t, p.Has(models.FieldAbstract))
	assert.Equal(t, models.StringField(""), p.Value(models.FieldAbstract))
	assert.False(t, p.Has(models.FieldConference))
	assert.True(t, p.Value(models.FieldConference).IsMissing())
	assert.Equal(t, json.Number("7"), p.Extra["subjects"])
	assert.Equal(t, models.NumberField(7), p.Value(models.FieldSubjects))
}

func TestFieldFromRaw(t *testing.T) {
	doc, err := bson.Marshal(bson.D{
		{Key: "i64", Value: int64(7)},
		{Key: "dbl", Value: 2.5},
		{Key: "str", Value: "x"},
		{Key: "null", Value: nil},
	})
	require.NoError(t, err)
	raw := bson.Raw(doc)

	assert.Equal(t, models.NumberField(7), fieldFromRaw(raw.Lookup("i64")))
	assert.Equal(t, models.NumberField(2.5), fieldFromRaw(raw.Lookup("dbl")))
	assert.Equal(t, models.StringField("x"), fieldFromRaw(raw.Lookup("str")))
	assert.True(t, fieldFromRaw(raw.Lookup("null")).IsMissing())
	assert.True(t, fieldFromRaw(raw.Lookup("absent")).IsMissing())
}
