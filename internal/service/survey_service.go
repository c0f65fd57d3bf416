package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/dto"
	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/observability"
	"github.com/noah-isme/remed-api/internal/repository"
)

// ErrSurveyNotFound indicates the referenced survey does not exist.
var ErrSurveyNotFound = errors.New("survey not found")

// ErrSurveyAlreadyCompleted indicates a second submission on a completed survey.
var ErrSurveyAlreadyCompleted = errors.New("survey already completed")

// SurveyService exposes rotation survey operations to residents and staff.
type SurveyService interface {
	List(ctx context.Context, req dto.SurveyListRequest) ([]dto.SurveyResponse, error)
	Get(ctx context.Context, id uint) (dto.SurveyResponse, error)
	GetByGrade(ctx context.Context, gradeID uint) (dto.SurveyResponse, error)
	Complete(ctx context.Context, id uint, payload dto.SurveyCompleteRequest, actor ActivityActor) (dto.SurveyResponse, error)
}

type surveyService struct {
	repo      repository.SurveyRepository
	validator *validator.Validate
	activity  ActivityRecorder
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSurveyService constructs the survey service.
func NewSurveyService(repo repository.SurveyRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) SurveyService {
	return &surveyService{
		repo:      repo,
		validator: validator,
		activity:  activity,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "survey_service").Logger(),
		now:       time.Now,
	}
}

func (s *surveyService) List(ctx context.Context, req dto.SurveyListRequest) ([]dto.SurveyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	surveys, err := s.repo.List(ctx, repository.SurveyFilter{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Status:    req.Status,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewSurveyResponseSlice(surveys), nil
}

func (s *surveyService) Get(ctx context.Context, id uint) (dto.SurveyResponse, error) {
	survey, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SurveyResponse{}, ErrSurveyNotFound
		}
		return dto.SurveyResponse{}, err
	}
	return dto.NewSurveyResponse(survey), nil
}

func (s *surveyService) GetByGrade(ctx context.Context, gradeID uint) (dto.SurveyResponse, error) {
	survey, err := s.repo.GetByGradeID(ctx, gradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SurveyResponse{}, ErrSurveyNotFound
		}
		return dto.SurveyResponse{}, err
	}
	return dto.NewSurveyResponse(survey), nil
}

func (s *surveyService) Complete(ctx context.Context, id uint, payload dto.SurveyCompleteRequest, actor ActivityActor) (dto.SurveyResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SurveyResponse{}, err
	}

	survey, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SurveyResponse{}, ErrSurveyNotFound
		}
		return dto.SurveyResponse{}, err
	}

	if survey.IsCompleted() {
		return dto.SurveyResponse{}, ErrSurveyAlreadyCompleted
	}

	answers := make([]models.SurveyAnswer, 0, len(payload.Answers))
	for _, answer := range payload.Answers {
		answers = append(answers, models.SurveyAnswer{
			Question: strings.TrimSpace(answer.Question),
			Answer:   strings.TrimSpace(s.sanitizer.Sanitize(answer.Answer)),
		})
	}

	completedAt := s.now()
	survey.Answers = answers
	survey.Status = models.SurveyStatusCompleted
	survey.CompletedAt = &completedAt

	if err := s.repo.Update(ctx, &survey); err != nil {
		return dto.SurveyResponse{}, err
	}

	observability.SurveysCompletedTotal().Inc()

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "survey.completed",
			EntityType: "survey",
			EntityID:   &survey.ID,
			Metadata: map[string]interface{}{
				"grade_id":   survey.GradeID,
				"student_id": survey.StudentID,
			},
		})
	}

	return dto.NewSurveyResponse(survey), nil
}
