package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name        string
		page, limit string
		want        Page
		err         error
	}{
		{name: "defaults", want: Page{Number: 1, Limit: 0}},
		{name: "explicit", page: "2", limit: "10", want: Page{Number: 2, Limit: 10}},
		{name: "page below one clamps", page: "-3", limit: "5", want: Page{Number: 1, Limit: 5}},
		{name: "zero page clamps", page: "0", want: Page{Number: 1}},
		{name: "negative limit means unlimited", page: "4", limit: "-1", want: Page{Number: 4, Limit: 0}},
		{name: "non-numeric page", page: "two", err: ErrInvalidPage},
		{name: "non-numeric limit", limit: "ten", err: ErrInvalidLimit},
		{name: "fractional limit", limit: "2.5", err: ErrInvalidLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePage(tt.page, tt.limit)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageWindow(t *testing.T) {
	p := NewPage(2, 10)
	assert.Equal(t, int64(10), p.Skip())
	assert.Equal(t, int64(3), p.TotalPages(25))
	assert.Equal(t, int64(2), p.TotalPages(20))
	assert.Equal(t, int64(0), p.TotalPages(0))

	unlimited := NewPage(5, 0)
	assert.Equal(t, int64(0), unlimited.Skip())
	assert.Equal(t, int64(1), unlimited.TotalPages(25))
}

func TestPageWindowAtIntRange(t *testing.T) {
	far := NewPage(math.MaxInt64, 2)
	assert.Equal(t, int64(math.MaxInt64), far.Skip())
	assert.Equal(t, int64(13), far.TotalPages(25))

	assert.Equal(t, int64(math.MaxInt64-1), NewPage(2, math.MaxInt64-1).Skip())
	assert.Equal(t, int64(math.MaxInt64), NewPage(3, math.MaxInt64/2+1).Skip())

	wide := NewPage(1, math.MaxInt64)
	assert.Equal(t, int64(0), wide.Skip())
	assert.Equal(t, int64(1), wide.TotalPages(25))
	assert.Equal(t, int64(0), wide.TotalPages(0))
}
