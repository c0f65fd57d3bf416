package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/dto"
	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/observability"
	"github.com/noah-isme/remed-api/internal/repository"
)

// ErrGradeNotFound indicates the referenced grade does not exist.
var ErrGradeNotFound = errors.New("grade not found")

// ErrReportNotFound indicates the referenced report does not exist.
var ErrReportNotFound = errors.New("report not found")

// ErrNoComponents indicates an evaluation payload carried nothing to grade.
var ErrNoComponents = errors.New("evaluation has no recognizable components")

// ErrReportAlreadyAccepted indicates a second acceptance attempt on a completed report.
var ErrReportAlreadyAccepted = errors.New("report already accepted")

// ErrConsentRequired indicates acceptance was requested without explicit consent.
var ErrConsentRequired = errors.New("explicit consent is required to accept a report")

// EvaluationNotifier publishes user-facing messages about evaluation events.
type EvaluationNotifier interface {
	Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error)
}

// EvaluationService governs the grade lifecycle: finalizing an evaluation
// (which snapshots a report and cascades the rotation survey in one atomic
// sequence) and completing a report through the resident's acceptance.
type EvaluationService interface {
	Evaluate(ctx context.Context, gradeID uint, payload dto.EvaluateRequest, actor ActivityActor) (dto.EvaluationResult, error)
	AcceptReport(ctx context.Context, reportID uint, payload dto.AcceptReportRequest, actor ActivityActor) (dto.ReportResponse, error)
	GetReport(ctx context.Context, reportID uint) (dto.ReportResponse, error)
	ListReports(ctx context.Context, filter repository.ReportFilter) ([]dto.ReportResponse, error)
}

type evaluationService struct {
	grades    repository.GradeRepository
	reports   repository.ReportRepository
	users     repository.UserRepository
	validator *validator.Validate
	activity  ActivityRecorder
	notifier  EvaluationNotifier
	template  SurveyTemplate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEvaluationService constructs the evaluation lifecycle service.
func NewEvaluationService(
	grades repository.GradeRepository,
	reports repository.ReportRepository,
	users repository.UserRepository,
	validator *validator.Validate,
	activity ActivityRecorder,
	notifier EvaluationNotifier,
	template SurveyTemplate,
	logger zerolog.Logger,
) EvaluationService {
	return &evaluationService{
		grades:    grades,
		reports:   reports,
		users:     users,
		validator: validator,
		activity:  activity,
		notifier:  notifier,
		template:  template,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
		now:       time.Now,
	}
}

func (s *evaluationService) Evaluate(ctx context.Context, gradeID uint, payload dto.EvaluateRequest, actor ActivityActor) (dto.EvaluationResult, error) {
	tracer := otel.Tracer("github.com/noah-isme/remed-api/internal/service/evaluation")
	ctx, span := tracer.Start(ctx, "evaluation.finalize")
	span.SetAttributes(
		attribute.Int64("evaluation.grade_id", int64(gradeID)),
		attribute.Int64("evaluation.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluationResult{}, err
	}

	grade, err := s.grades.GetByID(ctx, gradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "grade_not_found")
			return dto.EvaluationResult{}, ErrGradeNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "grade_lookup_failed")
		return dto.EvaluationResult{}, err
	}

	competencies := normalizeCompetencies(payload.Competencies)
	if payload.Grade1 == nil && payload.Grade3 == nil && models.CompetencyMean(competencies) == nil {
		span.SetStatus(codes.Error, "no_components")
		return dto.EvaluationResult{}, ErrNoComponents
	}

	wasFinalized := grade.IsFinalized

	grade.Grade1 = payload.Grade1
	grade.Grade2 = models.CompetencyMean(competencies)
	grade.Grade3 = payload.Grade3
	grade.Competencies = competencies
	grade.Feedback = strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))
	grade.IsFinalized = true

	signedAt := s.now()
	report := models.GradeReport{
		Reference:    uuid.NewString(),
		GradeID:      grade.ID,
		StudentID:    grade.StudentID,
		SubjectID:    grade.SubjectID,
		TeacherID:    grade.Subject.TeacherID,
		Grade1:       grade.Grade1,
		Grade2:       grade.Grade2,
		Grade3:       grade.Grade3,
		FinalGrade:   models.ComputeFinalGrade(grade),
		Competencies: competencies,
		Feedback:     grade.Feedback,
		Status:       models.ReportStatusPendingAcceptance,
		SignedAt:     signedAt,
	}

	candidate := s.buildCascadeSurvey(grade)

	surveyCreated, err := s.grades.Finalize(ctx, &grade, &report, candidate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "finalize_failed")
		return dto.EvaluationResult{}, err
	}

	observability.EvaluationsFinalizedTotal().Inc()
	if surveyCreated {
		observability.SurveysCascadedTotal().Inc()
	}

	s.recordActivity(ctx, actor, "grade.finalized", "grade", &grade.ID, map[string]interface{}{
		"student_id":     grade.StudentID,
		"subject_id":     grade.SubjectID,
		"final_grade":    report.FinalGrade,
		"re_evaluation":  wasFinalized,
		"survey_created": surveyCreated,
	})
	s.notifyStudent(ctx, grade.StudentID, "report.ready",
		fmt.Sprintf("Your rotation report %s is ready for review", report.Reference))

	span.SetAttributes(
		attribute.String("evaluation.final_grade", report.FinalGrade),
		attribute.Bool("evaluation.survey_created", surveyCreated),
		attribute.Bool("evaluation.re_evaluation", wasFinalized),
	)

	result := dto.EvaluationResult{
		Grade:  dto.NewGradeResponse(grade),
		Report: dto.NewReportResponse(report),
	}
	if surveyCreated && candidate != nil {
		survey := dto.NewSurveyResponse(*candidate)
		result.Survey = &survey
	}

	return result, nil
}

func (s *evaluationService) AcceptReport(ctx context.Context, reportID uint, payload dto.AcceptReportRequest, actor ActivityActor) (dto.ReportResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/remed-api/internal/service/evaluation")
	ctx, span := tracer.Start(ctx, "evaluation.accept_report")
	span.SetAttributes(
		attribute.Int64("evaluation.report_id", int64(reportID)),
		attribute.Int64("evaluation.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if !payload.Consent {
		span.SetStatus(codes.Error, "consent_missing")
		return dto.ReportResponse{}, ErrConsentRequired
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "report_not_found")
			return dto.ReportResponse{}, ErrReportNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "report_lookup_failed")
		return dto.ReportResponse{}, err
	}

	if report.IsAccepted() {
		span.SetStatus(codes.Error, "already_accepted")
		return dto.ReportResponse{}, ErrReportAlreadyAccepted
	}

	acceptedAt := s.now()
	report.Status = models.ReportStatusCompleted
	report.AcceptedAt = &acceptedAt

	if err := s.reports.Update(ctx, &report); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "report_update_failed")
		return dto.ReportResponse{}, err
	}

	observability.ReportsAcceptedTotal().Inc()

	s.recordActivity(ctx, actor, "report.accepted", "report", &report.ID, map[string]interface{}{
		"grade_id":   report.GradeID,
		"student_id": report.StudentID,
		"reference":  report.Reference,
	})

	return dto.NewReportResponse(report), nil
}

func (s *evaluationService) GetReport(ctx context.Context, reportID uint) (dto.ReportResponse, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, ErrReportNotFound
		}
		return dto.ReportResponse{}, err
	}
	return dto.NewReportResponse(report), nil
}

func (s *evaluationService) ListReports(ctx context.Context, filter repository.ReportFilter) ([]dto.ReportResponse, error) {
	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewReportResponseSlice(reports), nil
}

// buildCascadeSurvey prepares the survey candidate for the finalization
// transaction. The repository only materializes it when no survey exists yet
// for the grade, keeping the cascade idempotent.
func (s *evaluationService) buildCascadeSurvey(grade models.Grade) *models.Survey {
	answers := make([]models.SurveyAnswer, 0, len(s.template))
	for _, question := range s.template {
		answers = append(answers, models.SurveyAnswer{Question: question})
	}

	survey := models.Survey{
		GradeID:   grade.ID,
		StudentID: grade.StudentID,
		SubjectID: grade.SubjectID,
		Status:    models.SurveyStatusIncomplete,
		Answers:   answers,
	}
	if grade.Subject.TeacherID != 0 {
		teacherID := grade.Subject.TeacherID
		survey.TeacherID = &teacherID
	}
	return &survey
}

func (s *evaluationService) recordActivity(ctx context.Context, actor ActivityActor, action, entityType string, entityID *uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	if _, err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}

func (s *evaluationService) notifyStudent(ctx context.Context, studentID uint, kind, message string) {
	if s.notifier == nil || s.users == nil {
		return
	}

	user, err := findUserForStudent(ctx, s.users, studentID)
	if err != nil {
		s.logger.Debug().Err(err).Uint("student_id", studentID).Msg("no user linked to student, skipping notification")
		return
	}

	if _, err := s.notifier.Publish(ctx, dto.NotificationCreateRequest{
		UserID:  user.ID,
		Type:    kind,
		Message: message,
	}); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("failed to publish notification")
	}
}

func findUserForStudent(ctx context.Context, users repository.UserRepository, studentID uint) (models.User, error) {
	all, err := users.List(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, user := range all {
		if user.StudentID != nil && *user.StudentID == studentID {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

// normalizeCompetencies pads or truncates the submitted sub-scores to the
// fixed slot count so "present vs absent" stays positional.
func normalizeCompetencies(scores []*int) models.CompetencyScores {
	normalized := make(models.CompetencyScores, models.MaxCompetencyScores)
	for i := 0; i < len(scores) && i < models.MaxCompetencyScores; i++ {
		normalized[i] = scores[i]
	}
	return normalized
}
