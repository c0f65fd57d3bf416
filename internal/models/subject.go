package models

import "time"

// Subject represents a clinical rotation a resident can be assigned to.
// The assigned teacher is denormalized onto cascaded surveys at evaluation
// time, so later reassignment does not rewrite historical records.
type Subject struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	TeacherID uint       `gorm:"index;not null" json:"teacher_id"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Teacher   Teacher    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"teacher"`
}
