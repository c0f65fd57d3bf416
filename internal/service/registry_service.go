package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/dto"
	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/repository"
)

// ErrTeacherNotFound indicates the referenced teacher does not exist.
var ErrTeacherNotFound = errors.New("teacher not found")

// RegistryService manages the resident, teacher and rotation registries.
type RegistryService interface {
	ListStudents(ctx context.Context) ([]dto.StudentLite, error)
	CreateStudent(ctx context.Context, payload dto.StudentCreateRequest, actor ActivityActor) (dto.StudentLite, error)
	ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error)
	CreateSubject(ctx context.Context, payload dto.SubjectCreateRequest, actor ActivityActor) (dto.SubjectResponse, error)
	ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
}

type registryService struct {
	students  repository.StudentRepository
	teachers  repository.TeacherRepository
	subjects  repository.SubjectRepository
	users     repository.UserRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewRegistryService constructs the registry service.
func NewRegistryService(
	students repository.StudentRepository,
	teachers repository.TeacherRepository,
	subjects repository.SubjectRepository,
	users repository.UserRepository,
	validator *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) RegistryService {
	return &registryService{
		students:  students,
		teachers:  teachers,
		subjects:  subjects,
		users:     users,
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "registry_service").Logger(),
	}
}

func (s *registryService) ListStudents(ctx context.Context) ([]dto.StudentLite, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewStudentLiteSlice(students), nil
}

func (s *registryService) CreateStudent(ctx context.Context, payload dto.StudentCreateRequest, actor ActivityActor) (dto.StudentLite, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentLite{}, err
	}

	student := models.Student{
		Name:          strings.TrimSpace(payload.Name),
		Email:         strings.TrimSpace(payload.Email),
		PromotionYear: payload.PromotionYear,
	}

	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentLite{}, err
	}

	s.recordActivity(ctx, actor, "student.created", "student", student.ID)

	return dto.NewStudentLite(student), nil
}

func (s *registryService) ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewSubjectResponseSlice(subjects), nil
}

func (s *registryService) CreateSubject(ctx context.Context, payload dto.SubjectCreateRequest, actor ActivityActor) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubjectResponse{}, err
	}

	if _, err := s.teachers.GetByID(ctx, payload.TeacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubjectResponse{}, ErrTeacherNotFound
		}
		return dto.SubjectResponse{}, err
	}

	subject := models.Subject{
		Name:      strings.TrimSpace(payload.Name),
		TeacherID: payload.TeacherID,
		StartsAt:  payload.StartsAt,
		EndsAt:    payload.EndsAt,
	}

	if err := s.subjects.Create(ctx, &subject); err != nil {
		return dto.SubjectResponse{}, err
	}

	created, err := s.subjects.GetByID(ctx, subject.ID)
	if err != nil {
		return dto.SubjectResponse{}, err
	}

	s.recordActivity(ctx, actor, "subject.created", "subject", created.ID)

	return dto.NewSubjectResponse(created), nil
}

func (s *registryService) ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewTeacherResponseSlice(teachers), nil
}

func (s *registryService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(users), nil
}

func (s *registryService) recordActivity(ctx context.Context, actor ActivityActor, action, entityType string, entityID uint) {
	if s.activity == nil {
		return
	}
	if _, err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   &entityID,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}
