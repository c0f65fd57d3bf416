package models

import "time"

// Role is the closed set of account roles. Capability and view derivation
// switches over these values and treats anything else as no access.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleTeacher       Role = "teacher"
	RoleStudent       Role = "student"
)

// User is a dashboard account. Teacher and student accounts carry a link to
// their registry record so handlers can scope queries to owned entities.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      Role      `gorm:"size:32;not null;index" json:"role"`
	StudentID *uint     `gorm:"index" json:"student_id"`
	TeacherID *uint     `gorm:"index" json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
