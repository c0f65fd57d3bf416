package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/models"
)

// SurveyFilter narrows rotation survey queries.
type SurveyFilter struct {
	StudentID *uint
	SubjectID *uint
	Status    *string
}

// SurveyRepository defines data operations for rotation surveys.
type SurveyRepository interface {
	List(ctx context.Context, filter SurveyFilter) ([]models.Survey, error)
	GetByID(ctx context.Context, id uint) (models.Survey, error)
	GetByGradeID(ctx context.Context, gradeID uint) (models.Survey, error)
	Update(ctx context.Context, survey *models.Survey) error
}

type surveyRepository struct {
	db *gorm.DB
}

// NewSurveyRepository instantiates the repository.
func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

func (r *surveyRepository) List(ctx context.Context, filter SurveyFilter) ([]models.Survey, error) {
	query := r.db.WithContext(ctx).Model(&models.Survey{})

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.SubjectID != nil {
		query = query.Where("subject_id = ?", *filter.SubjectID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var surveys []models.Survey
	if err := query.Order("created_at DESC").Find(&surveys).Error; err != nil {
		return nil, err
	}

	return surveys, nil
}

func (r *surveyRepository) GetByID(ctx context.Context, id uint) (models.Survey, error) {
	var survey models.Survey
	if err := r.db.WithContext(ctx).First(&survey, id).Error; err != nil {
		return models.Survey{}, err
	}

	return survey, nil
}

func (r *surveyRepository) GetByGradeID(ctx context.Context, gradeID uint) (models.Survey, error) {
	var survey models.Survey
	if err := r.db.WithContext(ctx).Where("grade_id = ?", gradeID).First(&survey).Error; err != nil {
		return models.Survey{}, err
	}

	return survey, nil
}

func (r *surveyRepository) Update(ctx context.Context, survey *models.Survey) error {
	return r.db.WithContext(ctx).Save(survey).Error
}
