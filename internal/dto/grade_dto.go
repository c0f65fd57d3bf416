package dto

import (
	"time"

	"github.com/noah-isme/remed-api/internal/models"
)

// GradeLinkRequest links a resident to a rotation, creating an empty grade.
type GradeLinkRequest struct {
	StudentID uint `json:"student_id" validate:"required,gt=0"`
	SubjectID uint `json:"subject_id" validate:"required,gt=0"`
}

// GradeListRequest describes query filters for the grade manager view.
type GradeListRequest struct {
	StudentID     *uint    `query:"student_id"`
	SubjectID     *uint    `query:"subject_id"`
	TeacherID     *uint    `query:"teacher_id"`
	Finalized     *bool    `query:"finalized"`
	CompetencyMin *float64 `query:"competency_min"`
	CompetencyMax *float64 `query:"competency_max"`
	SortBy        string   `query:"sort_by" validate:"omitempty,oneof=student subject final_grade updated_at"`
}

// StudentLite summarizes a resident in nested responses.
type StudentLite struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	PromotionYear int    `json:"promotion_year"`
}

// SubjectLite summarizes a rotation in nested responses.
type SubjectLite struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	TeacherID   uint   `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
}

// GradeResponse is returned to API clients when viewing grades. FinalGrade is
// the display string ("6.2" or "N/A"); FinalGradeValue carries the numeric
// form when at least one component is present.
type GradeResponse struct {
	ID                uint        `json:"id"`
	StudentID         uint        `json:"student_id"`
	SubjectID         uint        `json:"subject_id"`
	Grade1            *float64    `json:"grade1"`
	Grade2            *float64    `json:"grade2"`
	Grade3            *float64    `json:"grade3"`
	Competencies      []*int      `json:"competencies"`
	CompetencyAverage *float64    `json:"competency_average"`
	FinalGrade        string      `json:"final_grade"`
	FinalGradeValue   *float64    `json:"final_grade_value"`
	Feedback          string      `json:"feedback"`
	IsFinalized       bool        `json:"is_finalized"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
	Student           StudentLite `json:"student"`
	Subject           SubjectLite `json:"subject"`
}

// NewStudentLite converts a student model into its nested DTO.
func NewStudentLite(model models.Student) StudentLite {
	return StudentLite{
		ID:            model.ID,
		Name:          model.Name,
		Email:         model.Email,
		PromotionYear: model.PromotionYear,
	}
}

// NewSubjectLite converts a subject model into its nested DTO.
func NewSubjectLite(model models.Subject) SubjectLite {
	lite := SubjectLite{
		ID:        model.ID,
		Name:      model.Name,
		TeacherID: model.TeacherID,
	}
	if model.Teacher.ID != 0 {
		lite.TeacherName = model.Teacher.Name
	}
	return lite
}
