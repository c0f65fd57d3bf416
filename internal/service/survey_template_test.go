package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSurveyTemplateDefault(t *testing.T) {
	template, err := LoadSurveyTemplate("")
	require.NoError(t, err)
	require.Len(t, template, 6)
	require.Contains(t, template[0], "overall quality")

	fromSpaces, err := LoadSurveyTemplate("   \n\t")
	require.NoError(t, err)
	require.Equal(t, template, fromSpaces)
}

func TestLoadSurveyTemplateOverride(t *testing.T) {
	raw := `{"questions": ["Was the rotation workload manageable?", "Any additional comments?"]}`

	template, err := LoadSurveyTemplate(raw)
	require.NoError(t, err)
	require.Equal(t, SurveyTemplate{
		"Was the rotation workload manageable?",
		"Any additional comments?",
	}, template)
}

func TestLoadSurveyTemplateInvalidJSON(t *testing.T) {
	_, err := LoadSurveyTemplate(`{"questions": [`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid survey template json")
}

func TestLoadSurveyTemplateRejectedBySchema(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "empty questions", raw: `{"questions": []}`},
		{name: "wrong type", raw: `{"questions": "not an array"}`},
		{name: "question too short", raw: `{"questions": ["ok"]}`},
		{name: "extra property", raw: `{"questions": ["Was supervision adequate?"], "title": "x"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadSurveyTemplate(tc.raw)
			require.Error(t, err)
			require.Contains(t, err.Error(), "rejected by schema")
		})
	}
}

func TestLoadSurveyTemplateTooManyQuestions(t *testing.T) {
	questions := make([]string, 0, 33)
	for i := 0; i < 33; i++ {
		questions = append(questions, fmt.Sprintf(`"Question number %d?"`, i+1))
	}
	raw := `{"questions": [` + strings.Join(questions, ",") + `]}`

	_, err := LoadSurveyTemplate(raw)
	require.Error(t, err)
	require.Contains(t, err.Error(), "rejected by schema")
}
