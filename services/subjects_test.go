package services

import (
	"testing"

	"paper-search/models"

	"github.com/stretchr/testify/assert"
)

func TestSubjectType(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"CVPR.2024 - Main", "Main", true},
		{"Workshop", "Workshop", true},
		{"  Workshop  ", "Workshop", true},
		{"A - B - Poster ", "Poster", true},
		{"Main-Track", "Main-Track", true},
		{"CVPR - ", "", false},
		{"   ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := SubjectType(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubjectTypesDeduplicatesAndSorts(t *testing.T) {
	got := SubjectTypes([]models.Field{
		models.StringField("ICCV.2023 - Oral"),
		models.StringField("CVPR.2024 - Main"),
		models.NumberField(7),
		models.StringField("Main"),
		models.StringField(""),
		models.StringField("ECCV.2024 - Main"),
	})
	assert.Equal(t, []string{"Main", "Oral"}, got)
}

func TestShapePaperLeavesSubjectsRaw(t *testing.T) {
	view := ShapePaper(models.Paper{Subjects: "CVPR.2024 - Main"})
	assert.Equal(t, "CVPR.2024 - Main", view[models.FieldSubjects])
	assert.Equal(t, "", view[models.FieldYear])
}
