package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/models"
)

// AnnotationFilter narrows behavioral annotation queries.
type AnnotationFilter struct {
	StudentID *uint
	TeacherID *uint
	Kind      *string
}

// AnnotationRepository defines data operations for behavioral annotations.
type AnnotationRepository interface {
	List(ctx context.Context, filter AnnotationFilter) ([]models.Annotation, error)
	GetByID(ctx context.Context, id uint) (models.Annotation, error)
	Create(ctx context.Context, annotation *models.Annotation) error
	Delete(ctx context.Context, id uint) error
}

type annotationRepository struct {
	db *gorm.DB
}

// NewAnnotationRepository instantiates the repository.
func NewAnnotationRepository(db *gorm.DB) AnnotationRepository {
	return &annotationRepository{db: db}
}

func (r *annotationRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Annotation{}).
		Preload("Student").
		Preload("Teacher")
}

func (r *annotationRepository) List(ctx context.Context, filter AnnotationFilter) ([]models.Annotation, error) {
	query := r.baseQuery(ctx)

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filter.TeacherID)
	}

	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}

	var annotations []models.Annotation
	if err := query.Order("created_at DESC").Find(&annotations).Error; err != nil {
		return nil, err
	}

	return annotations, nil
}

func (r *annotationRepository) GetByID(ctx context.Context, id uint) (models.Annotation, error) {
	var annotation models.Annotation
	if err := r.baseQuery(ctx).First(&annotation, id).Error; err != nil {
		return models.Annotation{}, err
	}

	return annotation, nil
}

func (r *annotationRepository) Create(ctx context.Context, annotation *models.Annotation) error {
	return r.db.WithContext(ctx).Create(annotation).Error
}

func (r *annotationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Annotation{}, id).Error
}
