package query

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"paper-search/models"
)

var (
	ErrInvalidPage  = errors.New("invalid page parameter")
	ErrInvalidLimit = errors.New("invalid limit parameter")
)

// SortKey is one level of a multi-key sort.
type SortKey struct {
	Field      string
	Descending bool
}

// PaperOrder is the fixed listing order: newest year first, then conference and title.
var PaperOrder = []SortKey{
	{Field: models.FieldYear, Descending: true},
	{Field: models.FieldConference},
	{Field: models.FieldTitle},
}

// Page is a pagination window. Limit 0 means everything on one page.
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps page to at least 1 and limit to at least 0.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 0 {
		limit = 0
	}
	return Page{Number: number, Limit: limit}
}

// ParsePage reads the page and limit query values. Empty values take the defaults.
func ParsePage(page, limit string) (Page, error) {
	number, size := 1, 0
	if s := strings.TrimSpace(page); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Page{}, ErrInvalidPage
		}
		number = n
	}
	if s := strings.TrimSpace(limit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Page{}, ErrInvalidLimit
		}
		size = n
	}
	return NewPage(number, size), nil
}

// Skip is the number of leading matches the window passes over.
// Windows beyond the int64 range saturate, which still lands past every match.
func (p Page) Skip() int64 {
	if p.Limit <= 0 || p.Number <= 1 {
		return 0
	}
	before, size := int64(p.Number-1), int64(p.Limit)
	if before > math.MaxInt64/size {
		return math.MaxInt64
	}
	return before * size
}

// TotalPages reports how many windows cover total matches.
func (p Page) TotalPages(total int64) int64 {
	if p.Limit <= 0 {
		return 1
	}
	size := int64(p.Limit)
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}
