package repository

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestSurveyFilterWhereClause(t *testing.T) {
	width, height := 99, 42

	tests := []struct {
		name   string
		filter SurveyFilter
		clause string
		args   pgx.NamedArgs
	}{
		{"empty", SurveyFilter{}, "", pgx.NamedArgs{}},
		{"width", SurveyFilter{Width: &width}, "width = @width", pgx.NamedArgs{"width": 99}},
		{
			"both",
			SurveyFilter{Width: &width, Height: &height},
			"width = @width AND height = @height",
			pgx.NamedArgs{"width": 99, "height": 42},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clause, args := test.filter.WhereClause()
			assert.Equal(t, test.clause, clause)
			assert.Equal(t, test.args, args)
		})
	}
}

func TestSurveyFilterLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, SurveyFilter{}.limit())
	assert.Equal(t, DefaultListLimit, SurveyFilter{Limit: -5}.limit())
	assert.Equal(t, 7, SurveyFilter{Limit: 7}.limit())
	assert.Equal(t, MaxListLimit, SurveyFilter{Limit: 1000}.limit())
}
