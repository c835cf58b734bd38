package models

import (
	"bytes"
	"encoding/json"
)

// Document field names shared by the stores and the query builder.
const (
	FieldTitle      = "title"
	FieldAbstract   = "abstract"
	FieldConference = "conference"
	FieldYear       = "year"
	FieldSubjects   = "subjects"
	FieldOrder      = "order"
	FieldID         = "_id"
)

// Paper is one document of the papers collection.
// Year and Order keep whatever type the store held; everything the
// schema does not name is carried through in Extra. A text field holding
// a non-string value is kept in Extra under its own name.
type Paper struct {
	Title      string
	Abstract   string
	Conference string
	Subjects   string
	Year       Field
	Order      Field
	Extra      map[string]any

	// empty marks text fields stored as "" so they stay distinct from absent ones.
	empty uint8
}

func textBit(field string) uint8 {
	switch field {
	case FieldTitle:
		return 1
	case FieldAbstract:
		return 2
	case FieldConference:
		return 4
	case FieldSubjects:
		return 8
	}
	return 0
}

func (p *Paper) textRef(field string) *string {
	switch field {
	case FieldTitle:
		return &p.Title
	case FieldAbstract:
		return &p.Abstract
	case FieldConference:
		return &p.Conference
	case FieldSubjects:
		return &p.Subjects
	}
	return nil
}

// SetText stores a string value for one of the schema text fields.
// An empty string still counts as present.
func (p *Paper) SetText(field, value string) {
	ref := p.textRef(field)
	if ref == nil {
		return
	}
	*ref = value
	if value == "" {
		p.empty |= textBit(field)
	}
}

// Has reports whether the document holds field at all.
func (p Paper) Has(field string) bool {
	switch field {
	case FieldYear:
		return !p.Year.IsMissing()
	case FieldOrder:
		return !p.Order.IsMissing()
	}
	if ref := p.textRef(field); ref != nil && (*ref != "" || p.empty&textBit(field) != 0) {
		return true
	}
	_, ok := p.Extra[field]
	return ok
}

// Text returns the string value of a named text field.
func (p Paper) Text(field string) string {
	switch field {
	case FieldYear:
		return p.Year.Text()
	case FieldOrder:
		return p.Order.Text()
	}
	if ref := p.textRef(field); ref != nil && *ref != "" {
		return *ref
	}
	if s, ok := p.Extra[field].(string); ok {
		return s
	}
	return ""
}

// Value returns a named field as a Field, for sorting and grouping.
// Absent fields are Missing.
func (p Paper) Value(field string) Field {
	switch field {
	case FieldYear:
		return p.Year
	case FieldOrder:
		return p.Order
	}
	if ref := p.textRef(field); ref != nil && (*ref != "" || p.empty&textBit(field) != 0) {
		return StringField(*ref)
	}
	switch v := p.Extra[field].(type) {
	case string:
		return StringField(v)
	case float64:
		return NumberField(v)
	case json.Number:
		if n, err := v.Float64(); err == nil {
			return NumberField(n)
		}
	}
	return MissingField()
}

var textFields = []string{FieldTitle, FieldAbstract, FieldConference, FieldSubjects}

// MarshalJSON writes the stored document form. Missing fields are omitted.
func (p Paper) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(p.Extra)+6)
	for k, v := range p.Extra {
		doc[k] = v
	}
	for _, f := range textFields {
		if v := p.Value(f); v.Kind() == FieldString {
			doc[f] = v.Str()
		}
	}
	if !p.Year.IsMissing() {
		doc[FieldYear] = p.Year
	}
	if !p.Order.IsMissing() {
		doc[FieldOrder] = p.Order
	}
	return json.Marshal(doc)
}

// UnmarshalJSON reads a stored document. Text fields with non-string values land in Extra.
func (p *Paper) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Paper{}
	for key, val := range raw {
		switch key {
		case FieldYear:
			if err := p.Year.UnmarshalJSON(val); err != nil {
				return err
			}
			continue
		case FieldOrder:
			if err := p.Order.UnmarshalJSON(val); err != nil {
				return err
			}
			continue
		case FieldTitle, FieldAbstract, FieldConference, FieldSubjects:
			var s string
			if bytes.HasPrefix(bytes.TrimSpace(val), []byte(`"`)) && json.Unmarshal(val, &s) == nil {
				p.SetText(key, s)
				continue
			}
		}

		dec := json.NewDecoder(bytes.NewReader(val))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[key] = v
	}
	return nil
}
