package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/remed-api/internal/models"
)

func queryGrades() []models.Grade {
	return []models.Grade{
		{
			ID:           1,
			StudentID:    1,
			SubjectID:    1,
			Grade1:       floatPtr(6.0),
			Competencies: models.CompetencyScores{intPtr(6), intPtr(7)},
			IsFinalized:  true,
			Student:      models.Student{ID: 1, Name: "Priya Nair"},
			Subject:      models.Subject{ID: 1, Name: "Pediatric Clinic", TeacherID: 2},
		},
		{
			ID:          2,
			StudentID:   2,
			SubjectID:   1,
			Grade1:      floatPtr(4.0),
			IsFinalized: true,
			Student:     models.Student{ID: 2, Name: "Jordan Reyes"},
			Subject:     models.Subject{ID: 1, Name: "Pediatric Clinic", TeacherID: 2},
		},
		{
			ID:        3,
			StudentID: 1,
			SubjectID: 2,
			Student:   models.Student{ID: 1, Name: "Priya Nair"},
			Subject:   models.Subject{ID: 2, Name: "Emergency Department", TeacherID: 5},
		},
	}
}

func TestFilterGradesByTeacher(t *testing.T) {
	teacherID := uint(5)
	filtered := FilterGrades(queryGrades(), GradeQuery{TeacherID: &teacherID})

	require.Len(t, filtered, 1)
	require.Equal(t, uint(3), filtered[0].ID)
}

func TestFilterGradesCompetencyRange(t *testing.T) {
	min := 6.0
	filtered := FilterGrades(queryGrades(), GradeQuery{CompetencyMin: &min})

	// Only the grade with competency data >= 6 matches; grades without any
	// competency data are excluded once a bound is set.
	require.Len(t, filtered, 1)
	require.Equal(t, uint(1), filtered[0].ID)
}

func TestFilterGradesNoCompetencyDataMatchesUnboundedRange(t *testing.T) {
	filtered := FilterGrades(queryGrades(), GradeQuery{})
	require.Len(t, filtered, 3)
}

func TestFilterGradesNoCompetencyDataExcludedByMaxBound(t *testing.T) {
	max := 7.0
	filtered := FilterGrades(queryGrades(), GradeQuery{CompetencyMax: &max})

	require.Len(t, filtered, 1)
	require.Equal(t, uint(1), filtered[0].ID)
}

func TestSortGradesByStudentName(t *testing.T) {
	grades := queryGrades()
	SortGrades(grades, GradeSortByStudent)

	require.Equal(t, "Jordan Reyes", grades[0].Student.Name)
	require.Equal(t, "Priya Nair", grades[1].Student.Name)
}

func TestSortGradesByFinalGradePutsUngradedLast(t *testing.T) {
	grades := queryGrades()
	SortGrades(grades, GradeSortByFinalGrade)

	require.Equal(t, uint(1), grades[0].ID)
	require.Equal(t, uint(2), grades[1].ID)
	require.Equal(t, uint(3), grades[2].ID)
}

func TestSortGradesDefaultsToMostRecentlyUpdated(t *testing.T) {
	now := time.Now()
	grades := []models.Grade{
		{ID: 1, UpdatedAt: now.Add(-time.Hour)},
		{ID: 2, UpdatedAt: now},
	}
	SortGrades(grades, "")

	require.Equal(t, uint(2), grades[0].ID)
}
