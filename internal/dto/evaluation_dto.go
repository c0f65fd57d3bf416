package dto

import (
	"time"

	"github.com/noah-isme/remed-api/internal/models"
)

// EvaluateRequest carries the full evaluation a teacher submits when
// finalizing a grade: all components arrive in one atomic payload.
type EvaluateRequest struct {
	Grade1       *float64 `json:"grade1" validate:"omitempty,gte=1,lte=7"`
	Grade3       *float64 `json:"grade3" validate:"omitempty,gte=1,lte=7"`
	Competencies []*int   `json:"competencies" validate:"max=8,dive,omitempty,gte=1,lte=7"`
	Feedback     string   `json:"feedback" validate:"omitempty,max=4000"`
}

// AcceptReportRequest acknowledges a pending report on behalf of a resident.
type AcceptReportRequest struct {
	Consent bool `json:"consent"`
}

// ReportResponse serializes a grade report snapshot.
type ReportResponse struct {
	ID           uint        `json:"id"`
	Reference    string      `json:"reference"`
	GradeID      uint        `json:"grade_id"`
	StudentID    uint        `json:"student_id"`
	SubjectID    uint        `json:"subject_id"`
	TeacherID    uint        `json:"teacher_id"`
	Grade1       *float64    `json:"grade1"`
	Grade2       *float64    `json:"grade2"`
	Grade3       *float64    `json:"grade3"`
	FinalGrade   string      `json:"final_grade"`
	Competencies []*int      `json:"competencies"`
	Feedback     string      `json:"feedback"`
	Status       string      `json:"status"`
	SignedAt     time.Time   `json:"signed_at"`
	AcceptedAt   *time.Time  `json:"accepted_at"`
	Student      StudentLite `json:"student"`
	Subject      SubjectLite `json:"subject"`
}

// EvaluationResult bundles everything produced by one finalization: the
// updated grade, the fresh report, and the cascaded survey when this call
// created one.
type EvaluationResult struct {
	Grade  GradeResponse   `json:"grade"`
	Report ReportResponse  `json:"report"`
	Survey *SurveyResponse `json:"survey,omitempty"`
}

// NewReportResponse converts a GradeReport model into a DTO.
func NewReportResponse(model models.GradeReport) ReportResponse {
	response := ReportResponse{
		ID:           model.ID,
		Reference:    model.Reference,
		GradeID:      model.GradeID,
		StudentID:    model.StudentID,
		SubjectID:    model.SubjectID,
		TeacherID:    model.TeacherID,
		Grade1:       model.Grade1,
		Grade2:       model.Grade2,
		Grade3:       model.Grade3,
		FinalGrade:   model.FinalGrade,
		Competencies: model.Competencies,
		Feedback:     model.Feedback,
		Status:       model.Status,
		SignedAt:     model.SignedAt,
		AcceptedAt:   model.AcceptedAt,
	}

	if model.Student.ID != 0 {
		response.Student = NewStudentLite(model.Student)
	}
	if model.Subject.ID != 0 {
		response.Subject = NewSubjectLite(model.Subject)
	}

	return response
}

// NewReportResponseSlice converts report models into DTOs.
func NewReportResponseSlice(reports []models.GradeReport) []ReportResponse {
	responses := make([]ReportResponse, 0, len(reports))
	for _, report := range reports {
		responses = append(responses, NewReportResponse(report))
	}
	return responses
}

// NewGradeResponse converts a Grade model into a DTO, deriving the computed
// display values at conversion time.
func NewGradeResponse(model models.Grade) GradeResponse {
	response := GradeResponse{
		ID:                model.ID,
		StudentID:         model.StudentID,
		SubjectID:         model.SubjectID,
		Grade1:            model.Grade1,
		Grade2:            model.Grade2,
		Grade3:            model.Grade3,
		Competencies:      model.Competencies,
		CompetencyAverage: models.CompetencyAverage(model),
		FinalGrade:        models.ComputeFinalGrade(model),
		Feedback:          model.Feedback,
		IsFinalized:       model.IsFinalized,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}

	if value, ok := models.FinalGradeValue(model); ok {
		response.FinalGradeValue = &value
	}

	if model.Student.ID != 0 {
		response.Student = NewStudentLite(model.Student)
	}
	if model.Subject.ID != 0 {
		response.Subject = NewSubjectLite(model.Subject)
	}

	return response
}

// NewGradeResponseSlice converts grade models into DTOs.
func NewGradeResponseSlice(grades []models.Grade) []GradeResponse {
	responses := make([]GradeResponse, 0, len(grades))
	for _, grade := range grades {
		responses = append(responses, NewGradeResponse(grade))
	}
	return responses
}
