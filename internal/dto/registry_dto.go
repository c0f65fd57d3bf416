package dto

import (
	"time"

	"github.com/noah-isme/remed-api/internal/models"
)

// StudentCreateRequest registers a new resident.
type StudentCreateRequest struct {
	Name          string `json:"name" validate:"required,max=120"`
	Email         string `json:"email" validate:"required,email"`
	PromotionYear int    `json:"promotion_year" validate:"required,gte=2000,lte=2100"`
}

// SubjectCreateRequest registers a new rotation.
type SubjectCreateRequest struct {
	Name      string     `json:"name" validate:"required,max=160"`
	TeacherID uint       `json:"teacher_id" validate:"required,gt=0"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
}

// SubjectResponse serializes a rotation with its attending teacher.
type SubjectResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	TeacherID   uint       `json:"teacher_id"`
	TeacherName string     `json:"teacher_name"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// TeacherResponse serializes an attending physician.
type TeacherResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Specialty string `json:"specialty"`
}

// NewSubjectResponse converts a Subject model into a DTO.
func NewSubjectResponse(model models.Subject) SubjectResponse {
	return SubjectResponse{
		ID:          model.ID,
		Name:        model.Name,
		TeacherID:   model.TeacherID,
		TeacherName: model.Teacher.Name,
		StartsAt:    model.StartsAt,
		EndsAt:      model.EndsAt,
	}
}

// NewSubjectResponseSlice converts subject models into DTOs.
func NewSubjectResponseSlice(subjects []models.Subject) []SubjectResponse {
	responses := make([]SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		responses = append(responses, NewSubjectResponse(subject))
	}
	return responses
}

// NewTeacherResponse converts a Teacher model into a DTO.
func NewTeacherResponse(model models.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Specialty: model.Specialty,
	}
}

// NewTeacherResponseSlice converts teacher models into DTOs.
func NewTeacherResponseSlice(teachers []models.Teacher) []TeacherResponse {
	responses := make([]TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		responses = append(responses, NewTeacherResponse(teacher))
	}
	return responses
}

// NewStudentLiteSlice converts student models into nested DTOs.
func NewStudentLiteSlice(students []models.Student) []StudentLite {
	responses := make([]StudentLite, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentLite(student))
	}
	return responses
}
