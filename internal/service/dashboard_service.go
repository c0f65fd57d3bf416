package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/remed-api/internal/dto"
	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/repository"
)

// StudentDashboardService produces the aggregated per-resident dashboard.
type StudentDashboardService interface {
	GetDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error)
}

type studentDashboardService struct {
	grades   repository.GradeRepository
	reports  repository.ReportRepository
	surveys  repository.SurveyRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewStudentDashboardService builds the dashboard aggregator.
func NewStudentDashboardService(
	grades repository.GradeRepository,
	reports repository.ReportRepository,
	surveys repository.SurveyRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) StudentDashboardService {
	return &studentDashboardService{
		grades:   grades,
		reports:  reports,
		surveys:  surveys,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "student_dashboard_service").Logger(),
	}
}

func (s *studentDashboardService) GetDashboard(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%d", studentID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.StudentDashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("student_id", studentID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	grades, err := s.grades.List(ctx, repository.GradeFilter{StudentID: &studentID})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	pendingStatus := models.ReportStatusPendingAcceptance
	pendingReports, err := s.reports.List(ctx, repository.ReportFilter{StudentID: &studentID, Status: &pendingStatus})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	incompleteStatus := models.SurveyStatusIncomplete
	openSurveys, err := s.surveys.List(ctx, repository.SurveyFilter{StudentID: &studentID, Status: &incompleteStatus})
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	response := buildDashboard(grades, pendingReports, openSurveys)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func buildDashboard(grades []models.Grade, pendingReports []models.GradeReport, openSurveys []models.Survey) dto.StudentDashboardResponse {
	summary := dto.RotationSummary{
		TotalRotations:     len(grades),
		ReportsPending:     len(pendingReports),
		SurveysOutstanding: len(openSurveys),
	}

	var gradeTotal float64
	var gradedCount int
	for _, grade := range grades {
		if grade.IsFinalized {
			summary.Finalized++
		} else {
			summary.InProgress++
		}
		if value, ok := models.FinalGradeValue(grade); ok && grade.IsFinalized {
			gradeTotal += value
			gradedCount++
		}
	}
	if gradedCount > 0 {
		average := gradeTotal / float64(gradedCount)
		summary.AverageFinalGrade = &average
	}

	return dto.StudentDashboardResponse{
		Summary:        summary,
		Grades:         dto.NewGradeResponseSlice(grades),
		PendingReports: dto.NewReportResponseSlice(pendingReports),
		OpenSurveys:    dto.NewSurveyResponseSlice(openSurveys),
	}
}
