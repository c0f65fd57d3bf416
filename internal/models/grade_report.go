package models

import "time"

const (
	// ReportStatusPendingAcceptance marks a report awaiting the resident's acknowledgement.
	ReportStatusPendingAcceptance = "pending_acceptance"
	// ReportStatusCompleted marks a report the resident has accepted.
	ReportStatusCompleted = "completed"
)

// GradeReport is the immutable snapshot produced when a grade is finalized.
// The grade summary is captured at generation time and never recomputed;
// re-evaluating the source grade yields a new report, not a rewrite.
type GradeReport struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	Reference    string           `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	GradeID      uint             `gorm:"index;not null" json:"grade_id"`
	StudentID    uint             `gorm:"index;not null" json:"student_id"`
	SubjectID    uint             `gorm:"index;not null" json:"subject_id"`
	TeacherID    uint             `gorm:"index;not null" json:"teacher_id"`
	Grade1       *float64         `json:"grade1"`
	Grade2       *float64         `json:"grade2"`
	Grade3       *float64         `json:"grade3"`
	FinalGrade   string           `gorm:"size:16;not null" json:"final_grade"`
	Competencies CompetencyScores `gorm:"type:json" json:"competencies"`
	Feedback     string           `gorm:"type:text" json:"feedback"`
	Status       string           `gorm:"size:32;index;not null" json:"status"`
	SignedAt     time.Time        `gorm:"not null" json:"signed_at"`
	AcceptedAt   *time.Time       `json:"accepted_at"`
	CreatedAt    time.Time        `json:"created_at"`
	Student      Student          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Subject      Subject          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"subject"`
}

// IsAccepted reports whether the resident already acknowledged the report.
func (r GradeReport) IsAccepted() bool {
	return r.Status == ReportStatusCompleted
}
