package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/remed-api/internal/dto"
	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/repository"
)

const maxNewsPageSize = 50

// NewsService exposes the dashboard news view.
type NewsService interface {
	ListActive(ctx context.Context, page, pageSize int) (dto.NewsListResponse, error)
	Seed(ctx context.Context, items []models.NewsItem) (int64, error)
}

type newsService struct {
	repo   repository.NewsRepository
	cache  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
	policy *bluemonday.Policy
}

// NewNewsService constructs the news service.
func NewNewsService(repo repository.NewsRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) NewsService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("p", "strong", "em", "a", "ul", "ol", "li", "br")
	policy.AllowAttrs("href", "title", "target").OnElements("a")
	return &newsService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "news_service").Logger(),
		policy: policy,
	}
}

func (s *newsService) ListActive(ctx context.Context, page, pageSize int) (dto.NewsListResponse, error) {
	page = maxInt(page, 1)
	pageSize = clampNewsPageSize(pageSize)

	cacheKey := ""
	if s.cache != nil {
		cacheKey = fmt.Sprintf("news:active:v1:%d:%d", page, pageSize)
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response dto.NewsListResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				response.CacheHit = true
				return response, nil
			}
		}
	}

	items, total, err := s.repo.ListActive(ctx, repository.NewsFilter{Page: page, PageSize: pageSize})
	if err != nil {
		return dto.NewsListResponse{}, err
	}

	responses := make([]dto.NewsResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.NewsResponse{
			ID:        item.ID,
			Title:     strings.TrimSpace(item.Title),
			Body:      s.policy.Sanitize(item.Body),
			StartsAt:  item.StartsAt,
			EndsAt:    item.EndsAt,
			IsPinned:  item.IsPinned,
			CreatedAt: item.CreatedAt,
		})
	}

	pagination := dto.PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
	}
	if pageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	} else {
		pagination.TotalPages = 1
	}

	response := dto.NewsListResponse{Items: responses, Pagination: pagination}

	if cacheKey != "" && s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache news listing")
			}
		}
	}

	return response, nil
}

func (s *newsService) Seed(ctx context.Context, items []models.NewsItem) (int64, error) {
	return s.repo.UpsertBatch(ctx, items)
}

func clampNewsPageSize(pageSize int) int {
	if pageSize <= 0 {
		return 10
	}
	if pageSize > maxNewsPageSize {
		return maxNewsPageSize
	}
	return pageSize
}
