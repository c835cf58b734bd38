package pgstore

import (
	"fmt"
	"strings"

	"paper-search/query"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// textExpr extracts a document field as text.
func textExpr(field string) string {
	return fmt.Sprintf("doc->>'%s'", strings.ReplaceAll(field, "'", "''"))
}

// valueExpr extracts a document field as jsonb, keeping its stored type.
func valueExpr(field string) string {
	return fmt.Sprintf("doc->'%s'", strings.ReplaceAll(field, "'", "''"))
}

// Where renders a predicate as a SQL condition with gorm placeholders.
// A match-all predicate renders as an empty string.
func Where(p query.Predicate) (string, []any) {
	if query.IsMatchAll(p) {
		return "", nil
	}
	switch p := p.(type) {
	case query.And:
		return group(p, " AND ", false)
	default:
		return condition(p)
	}
}

func condition(p query.Predicate) (string, []any) {
	switch p := p.(type) {
	case query.In:
		return textExpr(p.Field) + " IN ?", []any{p.Values}
	case query.Contains:
		return textExpr(p.Field) + " ILIKE ?", []any{"%" + likeEscaper.Replace(p.Substring) + "%"}
	case query.Or:
		return group(p, " OR ", true)
	case query.And:
		return group(p, " AND ", true)
	default:
		return "", nil
	}
}

func group(ps []query.Predicate, sep string, wrap bool) (string, []any) {
	var conditions []string
	var args []any
	for _, sub := range ps {
		sql, subArgs := condition(sub)
		if sql == "" {
			continue
		}
		conditions = append(conditions, sql)
		args = append(args, subArgs...)
	}
	if len(conditions) == 0 {
		return "", nil
	}
	sql := strings.Join(conditions, sep)
	if wrap && len(conditions) > 1 {
		sql = "(" + sql + ")"
	}
	return sql, args
}

// OrderBy renders sort keys with byte-wise string comparison.
// Missing values sort lowest, as in the document store.
func OrderBy(keys []query.SortKey) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		dir := "ASC NULLS FIRST"
		if k.Descending {
			dir = "DESC NULLS LAST"
		}
		parts = append(parts, fmt.Sprintf(`%s COLLATE "C" %s`, textExpr(k.Field), dir))
	}
	return strings.Join(parts, ", ")
}
