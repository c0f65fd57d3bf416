package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/dto"
	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/repository"
)

// ErrStudentNotFound indicates the referenced resident does not exist.
var ErrStudentNotFound = errors.New("student not found")

// ErrSubjectNotFound indicates the referenced rotation does not exist.
var ErrSubjectNotFound = errors.New("subject not found")

// ErrGradeAlreadyLinked indicates the pair already has an evaluation grade.
var ErrGradeAlreadyLinked = errors.New("student already linked to subject")

// GradeService manages the grade registry: linking residents to rotations
// and serving the grade manager's filtered, sorted views.
type GradeService interface {
	Link(ctx context.Context, payload dto.GradeLinkRequest, actor ActivityActor) (dto.GradeResponse, error)
	Get(ctx context.Context, id uint) (dto.GradeResponse, error)
	List(ctx context.Context, req dto.GradeListRequest) ([]dto.GradeResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
	ExportCSV(ctx context.Context, req dto.GradeListRequest) ([]byte, error)
}

type gradeService struct {
	grades    repository.GradeRepository
	students  repository.StudentRepository
	subjects  repository.SubjectRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewGradeService constructs the grade registry service.
func NewGradeService(
	grades repository.GradeRepository,
	students repository.StudentRepository,
	subjects repository.SubjectRepository,
	validator *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) GradeService {
	return &gradeService{
		grades:    grades,
		students:  students,
		subjects:  subjects,
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "grade_service").Logger(),
	}
}

func (s *gradeService) Link(ctx context.Context, payload dto.GradeLinkRequest, actor ActivityActor) (dto.GradeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GradeResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, payload.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeResponse{}, ErrStudentNotFound
		}
		return dto.GradeResponse{}, err
	}
	if _, err := s.subjects.GetByID(ctx, payload.SubjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeResponse{}, ErrSubjectNotFound
		}
		return dto.GradeResponse{}, err
	}

	if _, err := s.grades.GetByStudentAndSubject(ctx, payload.StudentID, payload.SubjectID); err == nil {
		return dto.GradeResponse{}, ErrGradeAlreadyLinked
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.GradeResponse{}, err
	}

	grade := models.Grade{
		StudentID:    payload.StudentID,
		SubjectID:    payload.SubjectID,
		Competencies: make(models.CompetencyScores, models.MaxCompetencyScores),
	}
	if err := s.grades.Create(ctx, &grade); err != nil {
		return dto.GradeResponse{}, err
	}

	created, err := s.grades.GetByID(ctx, grade.ID)
	if err != nil {
		return dto.GradeResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "grade.linked",
			EntityType: "grade",
			EntityID:   &created.ID,
			Metadata: map[string]interface{}{
				"student_id": created.StudentID,
				"subject_id": created.SubjectID,
			},
		})
	}

	return dto.NewGradeResponse(created), nil
}

func (s *gradeService) Get(ctx context.Context, id uint) (dto.GradeResponse, error) {
	grade, err := s.grades.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeResponse{}, ErrGradeNotFound
		}
		return dto.GradeResponse{}, err
	}
	return dto.NewGradeResponse(grade), nil
}

// List loads the storage-filtered grade set, then composes the in-memory
// predicates for the derived values and the requested ordering.
func (s *gradeService) List(ctx context.Context, req dto.GradeListRequest) ([]dto.GradeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	grades, err := s.loadFiltered(ctx, req)
	if err != nil {
		return nil, err
	}

	return dto.NewGradeResponseSlice(grades), nil
}

func (s *gradeService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	grade, err := s.grades.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGradeNotFound
		}
		return err
	}

	if err := s.grades.Delete(ctx, grade.ID); err != nil {
		return err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "grade.deleted",
			EntityType: "grade",
			EntityID:   &grade.ID,
			Metadata: map[string]interface{}{
				"student_id":    grade.StudentID,
				"subject_id":    grade.SubjectID,
				"was_finalized": grade.IsFinalized,
			},
		})
	}

	return nil
}

// ExportCSV renders the filtered grade manager view. The display string is
// the canonical grade value in the export.
func (s *gradeService) ExportCSV(ctx context.Context, req dto.GradeListRequest) ([]byte, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	grades, err := s.loadFiltered(ctx, req)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	header := []string{"student", "subject", "teacher", "theoretical", "competency_average", "teaching_activity", "final_grade", "finalized"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, grade := range grades {
		row := []string{
			grade.Student.Name,
			grade.Subject.Name,
			grade.Subject.Teacher.Name,
			formatOptionalGrade(grade.Grade1),
			formatOptionalAverage(models.CompetencyAverage(grade)),
			formatOptionalGrade(grade.Grade3),
			models.ComputeFinalGrade(grade),
			strconv.FormatBool(grade.IsFinalized),
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func (s *gradeService) loadFiltered(ctx context.Context, req dto.GradeListRequest) ([]models.Grade, error) {
	grades, err := s.grades.List(ctx, repository.GradeFilter{
		StudentID:   req.StudentID,
		SubjectID:   req.SubjectID,
		IsFinalized: req.Finalized,
	})
	if err != nil {
		return nil, err
	}

	filtered := FilterGrades(grades, GradeQuery{
		TeacherID:     req.TeacherID,
		CompetencyMin: req.CompetencyMin,
		CompetencyMax: req.CompetencyMax,
	})
	SortGrades(filtered, req.SortBy)

	return filtered, nil
}

func formatOptionalGrade(value *float64) string {
	if value == nil {
		return ""
	}
	return models.FormatGrade(*value)
}

func formatOptionalAverage(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', 3, 64)
}
