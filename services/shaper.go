package services

import (
	"paper-search/models"
)

// PaperView is the public JSON form of a paper.
type PaperView map[string]any

var textFields = []string{models.FieldTitle, models.FieldAbstract, models.FieldConference, models.FieldSubjects}

// ShapePaper normalizes a stored paper for the API: the year becomes a string,
// order an int, and the storage identifier is dropped. Other fields pass through
// as stored; absent ones stay absent.
func ShapePaper(p models.Paper) PaperView {
	view := make(PaperView, len(p.Extra)+6)
	for k, v := range p.Extra {
		if k == models.FieldID {
			continue
		}
		view[k] = v
	}
	for _, f := range textFields {
		if v := p.Value(f); v.Kind() == models.FieldString {
			view[f] = v.Str()
		}
	}
	view[models.FieldYear] = models.NormalizeYear(p.Year)
	view[models.FieldOrder] = models.NormalizeOrder(p.Order)
	return view
}
