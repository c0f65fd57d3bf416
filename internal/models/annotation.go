package models

import "time"

const (
	// AnnotationKindPositive marks commendable behavior.
	AnnotationKindPositive = "positive"
	// AnnotationKindNegative marks behavior requiring follow-up.
	AnnotationKindNegative = "negative"
)

// Annotation is a behavioral note a teacher records on a resident,
// optionally scoped to a rotation.
type Annotation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"index;not null" json:"student_id"`
	SubjectID *uint     `gorm:"index" json:"subject_id"`
	TeacherID uint      `gorm:"index;not null" json:"teacher_id"`
	Kind      string    `gorm:"size:16;index;not null" json:"kind"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Student   Student   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Teacher   Teacher   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"teacher"`
}
