package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/remed-api/internal/models"
)

// NewsFilter filters news list queries.
type NewsFilter struct {
	Page     int
	PageSize int
}

// NewsRepository exposes persistence helpers for dashboard news.
type NewsRepository interface {
	ListActive(ctx context.Context, filter NewsFilter) ([]models.NewsItem, int64, error)
	UpsertBatch(ctx context.Context, items []models.NewsItem) (int64, error)
}

type newsRepository struct {
	db *gorm.DB
}

// NewNewsRepository constructs the repository implementation.
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) ListActive(ctx context.Context, filter NewsFilter) ([]models.NewsItem, int64, error) {
	now := time.Now()
	query := r.db.WithContext(ctx).Model(&models.NewsItem{})
	query = query.Where("is_pinned = ? OR (starts_at <= ? AND (ends_at IS NULL OR ends_at >= ?))", true, now, now)

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var items []models.NewsItem
	if err := query.Order("is_pinned DESC, starts_at DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *newsRepository) UpsertBatch(ctx context.Context, items []models.NewsItem) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "body", "starts_at", "ends_at", "is_pinned", "updated_at"}),
	}).Create(&items)

	return tx.RowsAffected, tx.Error
}
