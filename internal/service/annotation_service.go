package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/dto"
	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/repository"
)

// ErrAnnotationNotFound indicates the referenced annotation does not exist.
var ErrAnnotationNotFound = errors.New("annotation not found")

// AnnotationService manages behavioral annotations and their history view.
type AnnotationService interface {
	Create(ctx context.Context, payload dto.AnnotationCreateRequest, actor ActivityActor) (dto.AnnotationResponse, error)
	History(ctx context.Context, req dto.AnnotationHistoryRequest) ([]dto.AnnotationResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
}

type annotationService struct {
	repo      repository.AnnotationRepository
	students  repository.StudentRepository
	validator *validator.Validate
	activity  ActivityRecorder
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewAnnotationService constructs the annotation service.
func NewAnnotationService(
	repo repository.AnnotationRepository,
	students repository.StudentRepository,
	validator *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) AnnotationService {
	return &annotationService{
		repo:      repo,
		students:  students,
		validator: validator,
		activity:  activity,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "annotation_service").Logger(),
	}
}

func (s *annotationService) Create(ctx context.Context, payload dto.AnnotationCreateRequest, actor ActivityActor) (dto.AnnotationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnotationResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, payload.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnnotationResponse{}, ErrStudentNotFound
		}
		return dto.AnnotationResponse{}, err
	}

	teacherID := uint(0)
	if actor.TeacherID != nil {
		teacherID = *actor.TeacherID
	}

	annotation := models.Annotation{
		StudentID: payload.StudentID,
		SubjectID: payload.SubjectID,
		TeacherID: teacherID,
		Kind:      payload.Kind,
		Comment:   strings.TrimSpace(s.sanitizer.Sanitize(payload.Comment)),
	}

	if err := s.repo.Create(ctx, &annotation); err != nil {
		return dto.AnnotationResponse{}, err
	}

	created, err := s.repo.GetByID(ctx, annotation.ID)
	if err != nil {
		return dto.AnnotationResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "annotation.created",
			EntityType: "annotation",
			EntityID:   &created.ID,
			Metadata: map[string]interface{}{
				"student_id": created.StudentID,
				"kind":       created.Kind,
			},
		})
	}

	return dto.NewAnnotationResponse(created), nil
}

// History serves the annotation history view. Storage narrows by student,
// teacher and kind; the date window and ordering compose in memory with the
// same predicate machinery the grade manager uses.
func (s *annotationService) History(ctx context.Context, req dto.AnnotationHistoryRequest) ([]dto.AnnotationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	annotations, err := s.repo.List(ctx, repository.AnnotationFilter{
		StudentID: req.StudentID,
		TeacherID: req.TeacherID,
		Kind:      req.Kind,
	})
	if err != nil {
		return nil, err
	}

	predicates := make([]func(models.Annotation) bool, 0, 2)
	if req.From != nil {
		from := *req.From
		predicates = append(predicates, func(a models.Annotation) bool { return !a.CreatedAt.Before(from) })
	}
	if req.To != nil {
		to := *req.To
		predicates = append(predicates, func(a models.Annotation) bool { return !a.CreatedAt.After(to) })
	}

	filtered := applyFilters(annotations, predicates...)

	switch strings.ToLower(strings.TrimSpace(req.SortBy)) {
	case "student":
		sortBy(filtered, func(a, b models.Annotation) bool {
			return strings.ToLower(a.Student.Name) < strings.ToLower(b.Student.Name)
		})
	case "kind":
		sortBy(filtered, func(a, b models.Annotation) bool { return a.Kind < b.Kind })
	default:
		sortBy(filtered, func(a, b models.Annotation) bool { return a.CreatedAt.After(b.CreatedAt) })
	}

	return dto.NewAnnotationResponseSlice(filtered), nil
}

func (s *annotationService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	annotation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnotationNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, annotation.ID); err != nil {
		return err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "annotation.deleted",
			EntityType: "annotation",
			EntityID:   &annotation.ID,
			Metadata: map[string]interface{}{
				"student_id": annotation.StudentID,
			},
		})
	}

	return nil
}
