package models

import (
	"fmt"
	"math"
)

// Component weights for the weighted final grade. Missing components do not
// count as zero; the remaining weights are rescaled to sum to 1.
const (
	WeightTheoretical = 0.60
	WeightCompetency  = 0.30
	WeightTeaching    = 0.10
)

// FinalGradeNotAvailable is the sentinel shown when no component is present.
const FinalGradeNotAvailable = "N/A"

// CompetencyMean returns the arithmetic mean of the set entries in a
// competency sub-score list, or nil when no entry is set.
func CompetencyMean(scores CompetencyScores) *float64 {
	var sum float64
	var count int
	for _, score := range scores {
		if score == nil {
			continue
		}
		sum += float64(*score)
		count++
	}
	if count == 0 {
		return nil
	}
	mean := sum / float64(count)
	return &mean
}

// CompetencyAverage resolves the competency component of a grade: an
// explicitly set Grade2 wins, otherwise the mean of the set sub-scores.
// Returns nil when neither source yields a value.
func CompetencyAverage(g Grade) *float64 {
	if g.Grade2 != nil && !math.IsNaN(*g.Grade2) && !math.IsInf(*g.Grade2, 0) {
		value := *g.Grade2
		return &value
	}
	return CompetencyMean(g.Competencies)
}

// FinalGradeValue computes the weighted final grade over the present
// components only. The second return is false when no component is present.
func FinalGradeValue(g Grade) (float64, bool) {
	var weighted, totalWeight float64

	if g.Grade1 != nil {
		weighted += *g.Grade1 * WeightTheoretical
		totalWeight += WeightTheoretical
	}
	if avg := CompetencyAverage(g); avg != nil {
		weighted += *avg * WeightCompetency
		totalWeight += WeightCompetency
	}
	if g.Grade3 != nil {
		weighted += *g.Grade3 * WeightTeaching
		totalWeight += WeightTeaching
	}

	if totalWeight == 0 {
		return 0, false
	}
	return weighted / totalWeight, true
}

// ComputeFinalGrade renders the weighted final grade to one decimal place,
// or the "N/A" sentinel when no component is present. The string form is the
// canonical comparison key used by list views and CSV export.
func ComputeFinalGrade(g Grade) string {
	value, ok := FinalGradeValue(g)
	if !ok {
		return FinalGradeNotAvailable
	}
	return FormatGrade(value)
}

// FormatGrade renders a grade value the way the UI displays it.
func FormatGrade(value float64) string {
	return fmt.Sprintf("%.1f", value)
}
