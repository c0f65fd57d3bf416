package dto

import "time"

// NewsResponse serializes one dashboard bulletin.
type NewsResponse struct {
	ID        uint       `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	IsPinned  bool       `json:"is_pinned"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewsListResponse wraps a paginated news listing.
type NewsListResponse struct {
	Items      []NewsResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
	CacheHit   bool           `json:"cache_hit,omitempty"`
}
