package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/models"
)

// GradeFilter narrows grade queries at the storage level. Derived-value
// filters (competency range) are applied in the service layer because the
// competency average is computed, not stored.
type GradeFilter struct {
	StudentID   *uint
	SubjectID   *uint
	IsFinalized *bool
}

// GradeRepository defines data operations for evaluation grades.
type GradeRepository interface {
	List(ctx context.Context, filter GradeFilter) ([]models.Grade, error)
	GetByID(ctx context.Context, id uint) (models.Grade, error)
	GetByStudentAndSubject(ctx context.Context, studentID, subjectID uint) (models.Grade, error)
	Create(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id uint) error

	// Finalize persists the full finalization sequence atomically: the grade
	// with its components and finalized flag, the report snapshot, and the
	// cascaded survey when one does not exist yet for the grade. It reports
	// whether a survey was created by this call.
	Finalize(ctx context.Context, grade *models.Grade, report *models.GradeReport, survey *models.Survey) (bool, error)
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository instantiates the repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Grade{}).
		Preload("Student").
		Preload("Subject").
		Preload("Subject.Teacher")
}

func (r *gradeRepository) List(ctx context.Context, filter GradeFilter) ([]models.Grade, error) {
	query := r.baseQuery(ctx)

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.SubjectID != nil {
		query = query.Where("subject_id = ?", *filter.SubjectID)
	}

	if filter.IsFinalized != nil {
		query = query.Where("is_finalized = ?", *filter.IsFinalized)
	}

	var grades []models.Grade
	if err := query.Order("created_at DESC").Find(&grades).Error; err != nil {
		return nil, err
	}

	return grades, nil
}

func (r *gradeRepository) GetByID(ctx context.Context, id uint) (models.Grade, error) {
	var grade models.Grade
	if err := r.baseQuery(ctx).First(&grade, id).Error; err != nil {
		return models.Grade{}, err
	}

	return grade, nil
}

func (r *gradeRepository) GetByStudentAndSubject(ctx context.Context, studentID, subjectID uint) (models.Grade, error) {
	var grade models.Grade
	if err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Where("subject_id = ?", subjectID).
		Order("created_at DESC").
		First(&grade).Error; err != nil {
		return models.Grade{}, err
	}

	return grade, nil
}

func (r *gradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *gradeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Grade{}, id).Error
}

func (r *gradeRepository) Finalize(ctx context.Context, grade *models.Grade, report *models.GradeReport, survey *models.Survey) (bool, error) {
	surveyCreated := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Student", "Subject").Save(grade).Error; err != nil {
			return err
		}

		if err := tx.Omit("Student", "Subject").Create(report).Error; err != nil {
			return err
		}

		if survey == nil {
			return nil
		}

		var existing int64
		if err := tx.Model(&models.Survey{}).Where("grade_id = ?", survey.GradeID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		if err := tx.Create(survey).Error; err != nil {
			return err
		}
		surveyCreated = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return surveyCreated, nil
}
