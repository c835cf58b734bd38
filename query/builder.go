package query

import (
	"strings"

	"paper-search/models"
)

// Filter carries the user supplied filter dimensions of a paper search.
type Filter struct {
	Conferences    []string
	Years          []string
	Subjects       []string
	SearchTitle    string
	SearchAbstract string
}

// Build composes the filter into one predicate.
//
// The result is a conjunction of, in order: conference membership, year
// membership, the subject group and the keyword group. Dimensions without
// values are left out, so an empty Filter yields an empty And.
//
// Subjects match as raw substrings and are ORed together. Title and abstract
// keywords each become their own substring condition, all of them collected
// into a single AND group.
func Build(f Filter) Predicate {
	var clauses And

	if confs := uniqueValues(f.Conferences); len(confs) > 0 {
		clauses = append(clauses, In{Field: models.FieldConference, Values: confs})
	}
	if years := uniqueValues(f.Years); len(years) > 0 {
		clauses = append(clauses, In{Field: models.FieldYear, Values: years})
	}

	switch subjects := uniqueValues(f.Subjects); len(subjects) {
	case 0:
	case 1:
		clauses = append(clauses, Contains{Field: models.FieldSubjects, Substring: subjects[0]})
	default:
		group := make(Or, 0, len(subjects))
		for _, s := range subjects {
			group = append(group, Contains{Field: models.FieldSubjects, Substring: s})
		}
		clauses = append(clauses, group)
	}

	var keywords And
	keywords = appendKeywords(keywords, models.FieldTitle, f.SearchTitle)
	keywords = appendKeywords(keywords, models.FieldAbstract, f.SearchAbstract)
	if len(keywords) > 0 {
		clauses = append(clauses, keywords)
	}

	if clauses == nil {
		return And{}
	}
	return clauses
}

// Scope narrows the subject listing to the given conferences and years.
func Scope(conferences, years []string) Predicate {
	return Build(Filter{Conferences: conferences, Years: years})
}

func appendKeywords(group And, field, search string) And {
	for _, kw := range strings.Fields(search) {
		group = append(group, Contains{Field: field, Substring: kw})
	}
	return group
}

// uniqueValues trims values, drops blanks and collapses duplicates, keeping first-seen order.
func uniqueValues(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// SplitList parses a comma separated query value.
func SplitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return uniqueValues(strings.Split(raw, ","))
}
