package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FieldKind tags the variant held by a Field.
type FieldKind uint8

const (
	FieldMissing FieldKind = iota
	FieldNumber
	FieldString
)

func (k FieldKind) String() string {
	switch k {
	case FieldNumber:
		return "number"
	case FieldString:
		return "string"
	default:
		return "missing"
	}
}

// Field is a loosely typed document value: a number, a string, or nothing.
// Stores convert their native values into a Field when a document is read,
// so the rest of the code never inspects driver types. The zero value is Missing.
type Field struct {
	kind FieldKind
	num  float64
	str  string
}

func NumberField(n float64) Field { return Field{kind: FieldNumber, num: n} }

func StringField(s string) Field { return Field{kind: FieldString, str: s} }

func MissingField() Field { return Field{} }

func (f Field) Kind() FieldKind { return f.kind }

func (f Field) IsMissing() bool { return f.kind == FieldMissing }

// Num returns the numeric value; only meaningful for FieldNumber.
func (f Field) Num() float64 { return f.num }

// Str returns the string value; only meaningful for FieldString.
func (f Field) Str() string { return f.str }

// Text renders the value the way it would appear in a query string.
// Integral numbers print without a fraction, missing values are empty.
func (f Field) Text() string {
	switch f.kind {
	case FieldNumber:
		return formatNumber(f.num)
	case FieldString:
		return f.str
	default:
		return ""
	}
}

// Compare orders fields as the document store does: missing, then numbers, then strings.
func (f Field) Compare(o Field) int {
	if f.kind != o.kind {
		if f.kind < o.kind {
			return -1
		}
		return 1
	}
	switch f.kind {
	case FieldNumber:
		switch {
		case f.num < o.num:
			return -1
		case f.num > o.num:
			return 1
		}
	case FieldString:
		return strings.Compare(f.str, o.str)
	}
	return 0
}

// NormalizeYear returns the public string form of a stored year.
func NormalizeYear(f Field) string {
	return f.Text()
}

// NormalizeOrder coerces a stored order value to an int, falling back to 0.
func NormalizeOrder(f Field) int {
	switch f.kind {
	case FieldNumber:
		if math.IsNaN(f.num) || math.IsInf(f.num, 0) || math.Abs(f.num) >= math.MaxInt64 {
			return 0
		}
		return int(f.num)
	case FieldString:
		n, err := strconv.Atoi(strings.TrimSpace(f.str))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// YearToken reports whether f is a usable year for listings: a non-zero integer,
// or a non-empty all-digit string.
func YearToken(f Field) (string, bool) {
	switch f.kind {
	case FieldNumber:
		if f.num == 0 || f.num != math.Trunc(f.num) {
			return "", false
		}
		return formatNumber(f.num), true
	case FieldString:
		if f.str == "" {
			return "", false
		}
		for _, r := range f.str {
			if r < '0' || r > '9' {
				return "", false
			}
		}
		return f.str, true
	default:
		return "", false
	}
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// MarshalJSON writes the stored form: a JSON number, string, or null.
func (f Field) MarshalJSON() ([]byte, error) {
	switch f.kind {
	case FieldNumber:
		if math.IsNaN(f.num) || math.IsInf(f.num, 0) {
			return []byte("null"), nil
		}
		return []byte(formatNumber(f.num)), nil
	case FieldString:
		return json.Marshal(f.str)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts numbers and strings; anything else decodes as Missing.
func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = Field{}
	if len(data) == 0 {
		return nil
	}
	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = StringField(s)
	case c == '-' || (c >= '0' && c <= '9'):
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*f = NumberField(n)
	}
	return nil
}
