package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/repository"
)

type fakeNewsRepo struct {
	items     []models.NewsItem
	listCalls int
}

func (f *fakeNewsRepo) ListActive(ctx context.Context, filter repository.NewsFilter) ([]models.NewsItem, int64, error) {
	f.listCalls++
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(f.items) {
		return nil, int64(len(f.items)), nil
	}
	end := start + filter.PageSize
	if end > len(f.items) {
		end = len(f.items)
	}
	return f.items[start:end], int64(len(f.items)), nil
}

func (f *fakeNewsRepo) UpsertBatch(ctx context.Context, items []models.NewsItem) (int64, error) {
	f.items = append(f.items, items...)
	return int64(len(items)), nil
}

func newNewsFixture(items []models.NewsItem) *fakeNewsRepo {
	return &fakeNewsRepo{items: items}
}

func TestNewsServiceListActive(t *testing.T) {
	repo := newNewsFixture([]models.NewsItem{
		{ID: 1, Slug: "rotation-schedule", Title: "  Rotation schedule published  ", Body: "<p>See the <a href=\"/calendar\">calendar</a>.</p><script>alert(1)</script>", StartsAt: time.Now()},
		{ID: 2, Slug: "journal-club", Title: "Journal club", Body: "<p>Thursday.</p>", StartsAt: time.Now()},
	})
	svc := NewNewsService(repo, nil, time.Minute, testLogger())

	listing, err := svc.ListActive(context.Background(), 1, 10)
	require.NoError(t, err)
	require.False(t, listing.CacheHit)
	require.Len(t, listing.Items, 2)
	require.Equal(t, "Rotation schedule published", listing.Items[0].Title)
	require.NotContains(t, listing.Items[0].Body, "script")
	require.Contains(t, listing.Items[0].Body, "<a href=\"/calendar\"")
	require.Equal(t, 1, listing.Pagination.Page)
	require.Equal(t, int64(2), listing.Pagination.TotalItems)
	require.Equal(t, 1, listing.Pagination.TotalPages)
}

func TestNewsServiceListActiveCaches(t *testing.T) {
	repo := newNewsFixture([]models.NewsItem{
		{ID: 1, Slug: "rotation-schedule", Title: "Rotation schedule published", Body: "<p>Posted.</p>", StartsAt: time.Now()},
	})
	svc := NewNewsService(repo, testCache(t), time.Minute, testLogger())

	first, err := svc.ListActive(context.Background(), 1, 10)
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Equal(t, 1, repo.listCalls)

	second, err := svc.ListActive(context.Background(), 1, 10)
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, 1, repo.listCalls)
	require.Equal(t, first.Items, second.Items)

	// A different page misses the cache and goes back to storage.
	_, err = svc.ListActive(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Equal(t, 2, repo.listCalls)
}

func TestNewsServiceListActiveClampsPaging(t *testing.T) {
	repo := newNewsFixture(nil)
	svc := NewNewsService(repo, nil, time.Minute, testLogger())

	listing, err := svc.ListActive(context.Background(), 0, -5)
	require.NoError(t, err)
	require.Equal(t, 1, listing.Pagination.Page)
	require.Equal(t, 10, listing.Pagination.PageSize)

	listing, err = svc.ListActive(context.Background(), 1, 500)
	require.NoError(t, err)
	require.Equal(t, 50, listing.Pagination.PageSize)
}

func TestNewsServiceSeed(t *testing.T) {
	repo := newNewsFixture(nil)
	svc := NewNewsService(repo, nil, time.Minute, testLogger())

	count, err := svc.Seed(context.Background(), []models.NewsItem{
		{Slug: "welcome", Title: "Welcome", Body: "<p>Hi.</p>", StartsAt: time.Now()},
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
	require.Len(t, repo.items, 1)
}
