package pgstore

import (
	"testing"

	"paper-search/query"

	"github.com/stretchr/testify/assert"
)

func TestWhereMatchAll(t *testing.T) {
	for _, p := range []query.Predicate{nil, query.And{}, query.Build(query.Filter{Conferences: []string{" "}})} {
		sql, args := Where(p)
		assert.Empty(t, sql)
		assert.Empty(t, args)
	}
}

func TestWhereComposesAllDimensions(t *testing.T) {
	sql, args := Where(query.Build(query.Filter{
		Conferences:    []string{"CVPR", "ICCV"},
		Years:          []string{"2024"},
		Subjects:       []string{"Main", "Oral"},
		SearchTitle:    "deep learning",
		SearchAbstract: "100%_sure",
	}))

	assert.Equal(t,
		"doc->>'conference' IN ? AND doc->>'year' IN ? AND "+
			"(doc->>'subjects' ILIKE ? OR doc->>'subjects' ILIKE ?) AND "+
			"(doc->>'title' ILIKE ? AND doc->>'title' ILIKE ? AND doc->>'abstract' ILIKE ?)",
		sql)
	assert.Equal(t, []any{
		[]string{"CVPR", "ICCV"},
		[]string{"2024"},
		"%Main%", "%Oral%",
		"%deep%", "%learning%", `%100\%\_sure%`,
	}, args)
}

func TestWhereSingleKeywordIsNotWrapped(t *testing.T) {
	sql, args := Where(query.Build(query.Filter{SearchTitle: "vision"}))
	assert.Equal(t, "doc->>'title' ILIKE ?", sql)
	assert.Equal(t, []any{"%vision%"}, args)
}

func TestFieldNamesAreQuoted(t *testing.T) {
	assert.Equal(t, "doc->>'it''s'", textExpr("it's"))
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t,
		`doc->>'year' COLLATE "C" DESC NULLS LAST, `+
			`doc->>'conference' COLLATE "C" ASC NULLS FIRST, `+
			`doc->>'title' COLLATE "C" ASC NULLS FIRST`,
		OrderBy(query.PaperOrder))
}
