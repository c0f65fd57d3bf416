package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/models"
)

// ReportFilter narrows grade report queries.
type ReportFilter struct {
	GradeID   *uint
	StudentID *uint
	Status    *string
}

// ReportRepository defines data operations for grade reports.
type ReportRepository interface {
	List(ctx context.Context, filter ReportFilter) ([]models.GradeReport, error)
	GetByID(ctx context.Context, id uint) (models.GradeReport, error)
	Update(ctx context.Context, report *models.GradeReport) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository instantiates the repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.GradeReport{}).
		Preload("Student").
		Preload("Subject").
		Preload("Subject.Teacher")
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]models.GradeReport, error) {
	query := r.baseQuery(ctx)

	if filter.GradeID != nil {
		query = query.Where("grade_id = ?", *filter.GradeID)
	}

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var reports []models.GradeReport
	if err := query.Order("signed_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (models.GradeReport, error) {
	var report models.GradeReport
	if err := r.baseQuery(ctx).First(&report, id).Error; err != nil {
		return models.GradeReport{}, err
	}

	return report, nil
}

func (r *reportRepository) Update(ctx context.Context, report *models.GradeReport) error {
	return r.db.WithContext(ctx).Omit("Student", "Subject").Save(report).Error
}
