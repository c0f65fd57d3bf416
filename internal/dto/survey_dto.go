package dto

import (
	"time"

	"github.com/noah-isme/remed-api/internal/models"
)

// SurveyAnswerPayload is one answered question on a survey submission.
type SurveyAnswerPayload struct {
	Question string `json:"question" validate:"required,max=512"`
	Answer   string `json:"answer" validate:"required,max=4000"`
}

// SurveyCompleteRequest carries a resident's rotation feedback.
type SurveyCompleteRequest struct {
	Answers []SurveyAnswerPayload `json:"answers" validate:"required,min=1,max=32,dive"`
}

// SurveyListRequest describes query filters for survey listings.
type SurveyListRequest struct {
	StudentID *uint   `query:"student_id"`
	SubjectID *uint   `query:"subject_id"`
	Status    *string `query:"status" validate:"omitempty,oneof=incomplete completed"`
}

// SurveyResponse serializes a rotation survey.
type SurveyResponse struct {
	ID          uint                  `json:"id"`
	GradeID     uint                  `json:"grade_id"`
	StudentID   uint                  `json:"student_id"`
	SubjectID   uint                  `json:"subject_id"`
	TeacherID   *uint                 `json:"teacher_id"`
	Status      string                `json:"status"`
	Answers     []models.SurveyAnswer `json:"answers"`
	CompletedAt *time.Time            `json:"completed_at"`
	CreatedAt   time.Time             `json:"created_at"`
}

// NewSurveyResponse converts a Survey model into a DTO.
func NewSurveyResponse(model models.Survey) SurveyResponse {
	return SurveyResponse{
		ID:          model.ID,
		GradeID:     model.GradeID,
		StudentID:   model.StudentID,
		SubjectID:   model.SubjectID,
		TeacherID:   model.TeacherID,
		Status:      model.Status,
		Answers:     model.Answers,
		CompletedAt: model.CompletedAt,
		CreatedAt:   model.CreatedAt,
	}
}

// NewSurveyResponseSlice converts survey models into DTOs.
func NewSurveyResponseSlice(surveys []models.Survey) []SurveyResponse {
	responses := make([]SurveyResponse, 0, len(surveys))
	for _, survey := range surveys {
		responses = append(responses, NewSurveyResponse(survey))
	}
	return responses
}
