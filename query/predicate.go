package query

import (
	"fmt"
	"strings"
)

// Predicate is a store-neutral filter expression. Each store renders it
// into its own query language.
type Predicate interface {
	fmt.Stringer
	predicate()
}

// In matches documents whose Field equals one of Values.
type In struct {
	Field  string
	Values []string
}

// Contains matches documents whose Field contains Substring, ignoring case.
type Contains struct {
	Field     string
	Substring string
}

// And matches when every member matches. An empty And matches everything.
type And []Predicate

// Or matches when at least one member matches.
type Or []Predicate

func (In) predicate()       {}
func (Contains) predicate() {}
func (And) predicate()      {}
func (Or) predicate()       {}

func (p In) String() string {
	return fmt.Sprintf("%s IN [%s]", p.Field, strings.Join(p.Values, ", "))
}

func (p Contains) String() string {
	return fmt.Sprintf("%s ~ %q", p.Field, p.Substring)
}

func (p And) String() string {
	if len(p) == 0 {
		return "ALL"
	}
	return join(p, " AND ")
}

func (p Or) String() string {
	return join(p, " OR ")
}

func join(ps []Predicate, sep string) string {
	parts := make([]string, len(ps))
	for i, sub := range ps {
		s := sub.String()
		if _, nested := sub.(In); !nested {
			if _, leaf := sub.(Contains); !leaf {
				s = "(" + s + ")"
			}
		}
		parts[i] = s
	}
	return strings.Join(parts, sep)
}

// IsMatchAll reports whether p places no constraint at all.
func IsMatchAll(p Predicate) bool {
	if p == nil {
		return true
	}
	and, ok := p.(And)
	return ok && len(and) == 0
}
