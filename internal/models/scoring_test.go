package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func TestComputeFinalGradeAllComponents(t *testing.T) {
	grade := Grade{
		Grade1: floatPtr(6.0),
		Grade2: floatPtr(7.0),
		Grade3: floatPtr(7.0),
	}

	value, ok := FinalGradeValue(grade)
	require.True(t, ok)
	require.InDelta(t, 6.4, value, 1e-9)
	require.Equal(t, "6.4", ComputeFinalGrade(grade))
}

func TestComputeFinalGradeMissingCompetency(t *testing.T) {
	grade := Grade{
		Grade1: floatPtr(6.5),
		Grade3: floatPtr(5.5),
	}

	value, ok := FinalGradeValue(grade)
	require.True(t, ok)
	// (6.5*0.60 + 5.5*0.10) / 0.70
	require.InDelta(t, 6.357142857, value, 1e-9)
	require.Equal(t, "6.4", ComputeFinalGrade(grade))
}

func TestComputeFinalGradeSingleComponent(t *testing.T) {
	grade := Grade{Grade3: floatPtr(4.5)}

	value, ok := FinalGradeValue(grade)
	require.True(t, ok)
	require.InDelta(t, 4.5, value, 1e-9)
	require.Equal(t, "4.5", ComputeFinalGrade(grade))
}

func TestComputeFinalGradeNoComponents(t *testing.T) {
	require.Equal(t, "N/A", ComputeFinalGrade(Grade{}))

	_, ok := FinalGradeValue(Grade{})
	require.False(t, ok)
}

func TestCompetencyMeanSkipsUnsetSlots(t *testing.T) {
	scores := CompetencyScores{intPtr(7), nil, intPtr(4), nil, nil, nil, nil, nil}

	mean := CompetencyMean(scores)
	require.NotNil(t, mean)
	require.InDelta(t, 5.5, *mean, 1e-9)
}

func TestCompetencyMeanAllUnset(t *testing.T) {
	require.Nil(t, CompetencyMean(make(CompetencyScores, MaxCompetencyScores)))
	require.Nil(t, CompetencyMean(nil))
}

func TestCompetencyAveragePrefersExplicitOverride(t *testing.T) {
	grade := Grade{
		Grade2:       floatPtr(6.0),
		Competencies: CompetencyScores{intPtr(1), intPtr(1)},
	}

	avg := CompetencyAverage(grade)
	require.NotNil(t, avg)
	require.InDelta(t, 6.0, *avg, 1e-9)
}

func TestCompetencyAverageFallsBackToSubScores(t *testing.T) {
	grade := Grade{
		Competencies: CompetencyScores{intPtr(3), intPtr(5)},
	}

	avg := CompetencyAverage(grade)
	require.NotNil(t, avg)
	require.InDelta(t, 4.0, *avg, 1e-9)
}

func TestFinalGradeUsesCompetencySubScoresWithoutOverride(t *testing.T) {
	grade := Grade{
		Grade1:       floatPtr(6.0),
		Competencies: CompetencyScores{intPtr(5), intPtr(6)},
	}

	value, ok := FinalGradeValue(grade)
	require.True(t, ok)
	// (6.0*0.60 + 5.5*0.30) / 0.90
	require.InDelta(t, 5.833333333, value, 1e-9)
	require.Equal(t, "5.8", ComputeFinalGrade(grade))
}
