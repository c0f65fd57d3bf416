package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/models"
)

// DocumentRepository persists metadata for uploaded documents.
type DocumentRepository interface {
	Create(ctx context.Context, document *models.Document) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.Document, error)
	FindByChecksum(ctx context.Context, checksum string) (models.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository instantiates the repository.
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, document *models.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *documentRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Document, error) {
	var documents []models.Document
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&documents).Error; err != nil {
		return nil, err
	}

	return documents, nil
}

func (r *documentRepository) FindByChecksum(ctx context.Context, checksum string) (models.Document, error) {
	var document models.Document
	if err := r.db.WithContext(ctx).Where("checksum = ?", checksum).First(&document).Error; err != nil {
		return models.Document{}, err
	}

	return document, nil
}
