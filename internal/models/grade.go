package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// MaxCompetencyScores is the number of competency slots on an evaluation.
	MaxCompetencyScores = 8
	// CompetencyScoreMin is the lowest valid competency sub-score.
	CompetencyScoreMin = 1
	// CompetencyScoreMax is the highest valid competency sub-score.
	CompetencyScoreMax = 7
)

// CompetencyScores is the ordered list of competency sub-scores attached to
// an evaluation. Entries are nil when the competency was not assessed;
// a nil entry is excluded from averaging, never treated as zero.
type CompetencyScores = datatypes.JSONSlice[*int]

// Grade is one evaluation instance for a (student, subject) pair. It is
// created empty when a resident is linked to a rotation and filled in, all
// components at once, when the teacher submits the evaluation.
type Grade struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	StudentID    uint             `gorm:"index;not null" json:"student_id"`
	SubjectID    uint             `gorm:"index;not null" json:"subject_id"`
	Grade1       *float64         `json:"grade1"`
	Grade2       *float64         `json:"grade2"`
	Grade3       *float64         `json:"grade3"`
	Competencies CompetencyScores `gorm:"type:json" json:"competencies"`
	Feedback     string           `gorm:"type:text" json:"feedback"`
	IsFinalized  bool             `gorm:"index;not null;default:false" json:"is_finalized"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Student      Student          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Subject      Subject          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"subject"`
}

// HasComponents reports whether at least one grade component is recorded.
func (g Grade) HasComponents() bool {
	if g.Grade1 != nil || g.Grade2 != nil || g.Grade3 != nil {
		return true
	}
	for _, score := range g.Competencies {
		if score != nil {
			return true
		}
	}
	return false
}
