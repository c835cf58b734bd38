package services

import (
	"sort"
	"strings"

	"paper-search/models"
)

// subjectSeparator splits a stored subject such as "CVPR.2024 - Main" into prefix and type.
const subjectSeparator = " - "

// SubjectType extracts the subject type: the trimmed text after the last
// separator, or the whole trimmed string when there is none.
func SubjectType(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	if i := strings.LastIndex(raw, subjectSeparator); i >= 0 {
		raw = raw[i+len(subjectSeparator):]
	}
	t := strings.TrimSpace(raw)
	return t, t != ""
}

// SubjectTypes reduces distinct subject values to sorted unique types.
// Non-string values are skipped.
func SubjectTypes(values []models.Field) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v.Kind() != models.FieldString {
			continue
		}
		t, ok := SubjectType(v.Str())
		if !ok {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
