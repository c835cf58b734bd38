// Package memory is an in-process Store over a fixed set of papers.
// It backs local runs from a seed file and the tests of the layers above.
package memory

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"paper-search/models"
	"paper-search/query"
	"paper-search/storage"

	"golang.org/x/text/cases"
)

// Store never changes after construction, so it needs no locking.
type Store struct {
	papers []models.Paper
}

var _ storage.Store = (*Store)(nil)

func New(papers ...models.Paper) *Store {
	return &Store{papers: append([]models.Paper(nil), papers...)}
}

// Open loads a JSON-lines file, gunzipping it when the name ends in .gz.
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	papers, err := ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return New(papers...), nil
}

// ReadLines decodes one paper document per non-empty line.
func ReadLines(r io.Reader) ([]models.Paper, error) {
	var papers []models.Paper
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var p models.Paper
		if err := json.Unmarshal([]byte(text), &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		papers = append(papers, p)
	}
	return papers, sc.Err()
}

func (s *Store) Count(ctx context.Context, p query.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	for _, paper := range s.papers {
		if Match(p, paper) {
			n++
		}
	}
	return n, nil
}

func (s *Store) Find(ctx context.Context, p query.Predicate, opts storage.FindOptions) ([]models.Paper, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []models.Paper
	for _, paper := range s.papers {
		if Match(p, paper) {
			out = append(out, paper)
		}
	}
	if len(opts.Sort) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return compareBy(opts.Sort, out[i].Value, out[j].Value) < 0
		})
	}

	if opts.Skip > 0 {
		if opts.Skip >= int64(len(out)) {
			return []models.Paper{}, nil
		}
		out = out[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < int64(len(out)) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *Store) Distinct(ctx context.Context, field string, p query.Predicate) ([]models.Field, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []models.Field
	for _, paper := range s.papers {
		if !Match(p, paper) {
			continue
		}
		v := paper.Value(field)
		if v.IsMissing() {
			continue
		}
		k := fieldKey(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out, nil
}

func (s *Store) Group(ctx context.Context, fields []string, order []query.SortKey) ([]storage.GroupCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	index := make(map[string]int)
	var groups []storage.GroupCount
	for _, paper := range s.papers {
		key := make([]models.Field, len(fields))
		parts := make([]string, len(fields))
		for i, f := range fields {
			key[i] = paper.Value(f)
			parts[i] = fieldKey(key[i])
		}
		k := strings.Join(parts, "\x00")
		if i, ok := index[k]; ok {
			groups[i].Count++
			continue
		}
		index[k] = len(groups)
		groups = append(groups, storage.GroupCount{Key: key, Count: 1})
	}

	pos := make(map[string]int, len(fields))
	for i, f := range fields {
		pos[f] = i
	}
	sort.SliceStable(groups, func(i, j int) bool {
		get := func(g storage.GroupCount) func(string) models.Field {
			return func(f string) models.Field {
				if at, ok := pos[f]; ok {
					return g.Key[at]
				}
				return models.MissingField()
			}
		}
		return compareBy(order, get(groups[i]), get(groups[j])) < 0
	})
	return groups, nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close(context.Context) error { return nil }

// Match evaluates a predicate against one paper.
func Match(p query.Predicate, paper models.Paper) bool {
	switch p := p.(type) {
	case nil:
		return true
	case query.And:
		for _, sub := range p {
			if !Match(sub, paper) {
				return false
			}
		}
		return true
	case query.Or:
		for _, sub := range p {
			if Match(sub, paper) {
				return true
			}
		}
		return false
	case query.In:
		v := paper.Value(p.Field)
		if v.IsMissing() {
			return false
		}
		for _, want := range p.Values {
			if v.Text() == want {
				return true
			}
		}
		return false
	case query.Contains:
		v := paper.Value(p.Field)
		if v.Kind() != models.FieldString {
			return false
		}
		return containsFold(v.Str(), p.Substring)
	default:
		return false
	}
}

func containsFold(haystack, needle string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(haystack), fold.String(needle))
}

func compareBy(keys []query.SortKey, a, b func(string) models.Field) int {
	for _, k := range keys {
		c := a(k.Field).Compare(b(k.Field))
		if k.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func fieldKey(f models.Field) string {
	return f.Kind().String() + ":" + f.Text()
}
