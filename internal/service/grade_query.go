package service

import (
	"sort"
	"strings"

	"github.com/noah-isme/remed-api/internal/models"
)

// Grade sort keys accepted by the grade manager view.
const (
	GradeSortByStudent    = "student"
	GradeSortBySubject    = "subject"
	GradeSortByFinalGrade = "final_grade"
	GradeSortByUpdatedAt  = "updated_at"
)

// GradeQuery composes the in-memory filters applied on top of the storage
// filter: derived values (the competency average) cannot be filtered in SQL.
type GradeQuery struct {
	StudentID     *uint
	SubjectID     *uint
	TeacherID     *uint
	Finalized     *bool
	CompetencyMin *float64
	CompetencyMax *float64
}

// applyFilters returns the items matching every predicate.
func applyFilters[T any](items []T, predicates ...func(T) bool) []T {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		matches := true
		for _, predicate := range predicates {
			if !predicate(item) {
				matches = false
				break
			}
		}
		if matches {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// sortBy orders items by the provided comparator, stably.
func sortBy[T any](items []T, less func(a, b T) bool) {
	if less == nil {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
}

// matchesCompetencyRange applies the range rule for the derived competency
// average. A record with no competency data matches only when both bounds
// are unset: "no data" is a distinct bucket from "out of range".
func matchesCompetencyRange(grade models.Grade, min, max *float64) bool {
	average := models.CompetencyAverage(grade)
	if min == nil && max == nil {
		return true
	}
	if average == nil {
		return false
	}
	if min != nil && *average < *min {
		return false
	}
	if max != nil && *average > *max {
		return false
	}
	return true
}

// FilterGrades applies the composed grade predicates.
func FilterGrades(grades []models.Grade, query GradeQuery) []models.Grade {
	predicates := make([]func(models.Grade) bool, 0, 5)

	if query.StudentID != nil {
		id := *query.StudentID
		predicates = append(predicates, func(g models.Grade) bool { return g.StudentID == id })
	}
	if query.SubjectID != nil {
		id := *query.SubjectID
		predicates = append(predicates, func(g models.Grade) bool { return g.SubjectID == id })
	}
	if query.TeacherID != nil {
		id := *query.TeacherID
		predicates = append(predicates, func(g models.Grade) bool { return g.Subject.TeacherID == id })
	}
	if query.Finalized != nil {
		finalized := *query.Finalized
		predicates = append(predicates, func(g models.Grade) bool { return g.IsFinalized == finalized })
	}
	predicates = append(predicates, func(g models.Grade) bool {
		return matchesCompetencyRange(g, query.CompetencyMin, query.CompetencyMax)
	})

	return applyFilters(grades, predicates...)
}

// SortGrades orders the grade subset by the requested key. Grades without a
// computable final grade sort after graded ones under final_grade ordering.
func SortGrades(grades []models.Grade, sortKey string) {
	switch strings.ToLower(strings.TrimSpace(sortKey)) {
	case GradeSortByStudent:
		sortBy(grades, func(a, b models.Grade) bool {
			return strings.ToLower(a.Student.Name) < strings.ToLower(b.Student.Name)
		})
	case GradeSortBySubject:
		sortBy(grades, func(a, b models.Grade) bool {
			return strings.ToLower(a.Subject.Name) < strings.ToLower(b.Subject.Name)
		})
	case GradeSortByFinalGrade:
		sortBy(grades, func(a, b models.Grade) bool {
			valueA, okA := models.FinalGradeValue(a)
			valueB, okB := models.FinalGradeValue(b)
			if okA != okB {
				return okA
			}
			return valueA > valueB
		})
	case GradeSortByUpdatedAt, "":
		sortBy(grades, func(a, b models.Grade) bool {
			return a.UpdatedAt.After(b.UpdatedAt)
		})
	}
}
