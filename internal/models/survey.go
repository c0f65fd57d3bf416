package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// SurveyStatusIncomplete marks a cascaded survey awaiting the resident's answers.
	SurveyStatusIncomplete = "incomplete"
	// SurveyStatusCompleted marks a survey the resident has submitted.
	SurveyStatusCompleted = "completed"
)

// SurveyAnswer is one ordered question/answer pair on a rotation survey.
type SurveyAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Survey is the rotation-feedback instrument cascaded from a finalized grade.
// The unique index on GradeID backs the at-most-one-survey-per-grade rule.
type Survey struct {
	ID          uint                              `gorm:"primaryKey" json:"id"`
	GradeID     uint                              `gorm:"uniqueIndex;not null" json:"grade_id"`
	StudentID   uint                              `gorm:"index;not null" json:"student_id"`
	SubjectID   uint                              `gorm:"index;not null" json:"subject_id"`
	TeacherID   *uint                             `gorm:"index" json:"teacher_id"`
	Status      string                            `gorm:"size:32;index;not null" json:"status"`
	Answers     datatypes.JSONSlice[SurveyAnswer] `gorm:"type:json" json:"answers"`
	CompletedAt *time.Time                        `json:"completed_at"`
	CreatedAt   time.Time                         `json:"created_at"`
	UpdatedAt   time.Time                         `json:"updated_at"`
}

// IsCompleted reports whether the resident already submitted the survey.
func (s Survey) IsCompleted() bool {
	return s.Status == SurveyStatusCompleted
}
