package dto

// RotationSummary aggregates a resident's evaluation progress.
type RotationSummary struct {
	TotalRotations     int      `json:"total_rotations"`
	Finalized          int      `json:"finalized"`
	InProgress         int      `json:"in_progress"`
	AverageFinalGrade  *float64 `json:"average_final_grade"`
	ReportsPending     int      `json:"reports_pending"`
	SurveysOutstanding int      `json:"surveys_outstanding"`
}

// StudentDashboardResponse is the aggregated dashboard payload for a resident.
type StudentDashboardResponse struct {
	Summary        RotationSummary  `json:"summary"`
	Grades         []GradeResponse  `json:"grades"`
	PendingReports []ReportResponse `json:"pending_reports"`
	OpenSurveys    []SurveyResponse `json:"open_surveys"`
}
