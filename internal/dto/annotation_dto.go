package dto

import (
	"time"

	"github.com/noah-isme/remed-api/internal/models"
)

// AnnotationCreateRequest records a behavioral note on a resident.
type AnnotationCreateRequest struct {
	StudentID uint   `json:"student_id" validate:"required,gt=0"`
	SubjectID *uint  `json:"subject_id" validate:"omitempty,gt=0"`
	Kind      string `json:"kind" validate:"required,oneof=positive negative"`
	Comment   string `json:"comment" validate:"required,min=3,max=4000"`
}

// AnnotationHistoryRequest filters the annotation history view.
type AnnotationHistoryRequest struct {
	StudentID *uint      `query:"student_id"`
	TeacherID *uint      `query:"teacher_id"`
	Kind      *string    `query:"kind" validate:"omitempty,oneof=positive negative"`
	From      *time.Time `query:"from"`
	To        *time.Time `query:"to"`
	SortBy    string     `query:"sort_by" validate:"omitempty,oneof=created_at student kind"`
}

// AnnotationResponse serializes a behavioral annotation.
type AnnotationResponse struct {
	ID        uint        `json:"id"`
	StudentID uint        `json:"student_id"`
	SubjectID *uint       `json:"subject_id"`
	TeacherID uint        `json:"teacher_id"`
	Kind      string      `json:"kind"`
	Comment   string      `json:"comment"`
	CreatedAt time.Time   `json:"created_at"`
	Student   StudentLite `json:"student"`
}

// NewAnnotationResponse converts an Annotation model into a DTO.
func NewAnnotationResponse(model models.Annotation) AnnotationResponse {
	response := AnnotationResponse{
		ID:        model.ID,
		StudentID: model.StudentID,
		SubjectID: model.SubjectID,
		TeacherID: model.TeacherID,
		Kind:      model.Kind,
		Comment:   model.Comment,
		CreatedAt: model.CreatedAt,
	}
	if model.Student.ID != 0 {
		response.Student = NewStudentLite(model.Student)
	}
	return response
}

// NewAnnotationResponseSlice converts annotation models into DTOs.
func NewAnnotationResponseSlice(annotations []models.Annotation) []AnnotationResponse {
	responses := make([]AnnotationResponse, 0, len(annotations))
	for _, annotation := range annotations {
		responses = append(responses, NewAnnotationResponse(annotation))
	}
	return responses
}
