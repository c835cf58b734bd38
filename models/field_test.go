package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOrder(t *testing.T) {
	tests := []struct {
		name string
		in   Field
		want int
	}{
		{"integer", NumberField(7), 7},
		{"fraction truncates", NumberField(2.9), 2},
		{"numeric string", StringField("5"), 5},
		{"padded string", StringField(" 12 "), 12},
		{"non-numeric string", StringField("abc"), 0},
		{"decimal string", StringField("5.0"), 0},
		{"empty string", StringField(""), 0},
		{"missing", MissingField(), 0},
		{"nan", NumberField(math.NaN()), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeOrder(tt.in))
		})
	}
}

func TestNormalizeYear(t *testing.T) {
	assert.Equal(t, "2024", NormalizeYear(NumberField(2024)))
	assert.Equal(t, "2024", NormalizeYear(StringField("2024")))
	assert.Equal(t, "", NormalizeYear(MissingField()))
}

func TestYearToken(t *testing.T) {
	tests := []struct {
		name string
		in   Field
		want string
		ok   bool
	}{
		{"integer", NumberField(2023), "2023", true},
		{"digits", StringField("2024"), "2024", true},
		{"zero", NumberField(0), "", false},
		{"fraction", NumberField(2024.5), "", false},
		{"letters", StringField("20x4"), "", false},
		{"empty", StringField(""), "", false},
		{"missing", MissingField(), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := YearToken(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldCompare(t *testing.T) {
	assert.Equal(t, -1, MissingField().Compare(NumberField(1)))
	assert.Equal(t, -1, NumberField(2025).Compare(StringField("1999")))
	assert.Equal(t, 1, StringField("2024").Compare(StringField("2023")))
	assert.Equal(t, 0, NumberField(3).Compare(NumberField(3)))
}

func TestFieldJSON(t *testing.T) {
	var doc struct {
		A Field `json:"a"`
		B Field `json:"b"`
		C Field `json:"c"`
		D Field `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 2024, "b": "2024", "c": null, "d": true}`), &doc))

	assert.Equal(t, FieldNumber, doc.A.Kind())
	assert.Equal(t, FieldString, doc.B.Kind())
	assert.True(t, doc.C.IsMissing())
	assert.True(t, doc.D.IsMissing())

	out, err := json.Marshal(doc.A)
	require.NoError(t, err)
	assert.Equal(t, "2024", string(out))
}
