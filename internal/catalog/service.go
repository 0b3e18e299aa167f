// Package catalog is the query-side service for the content catalog: it
// validates and resolves raw request parameters into repository filters,
// applies the redis read-through cache, and shapes listing responses.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/yemenflix/yemenflix-server/internal/cache"
	"github.com/yemenflix/yemenflix-server/internal/facets"
	"github.com/yemenflix/yemenflix-server/internal/models"
	"github.com/yemenflix/yemenflix-server/internal/repository"
)

const (
	listCacheTTL   = 5 * time.Minute
	detailCacheTTL = 30 * time.Minute
	statsCacheTTL  = time.Minute

	cachePrefix = "catalog:"
)

var sortKeys = map[string]string{
	"":           "created_at",
	"created_at": "created_at",
	"newest":     "created_at",
	"rating":     "rating",
	"year":       "year",
	"views":      "view_count",
	"view_count": "view_count",
}

// Query is the raw, untrusted filter input from the HTTP layer.
type Query struct {
	Type     string
	Category string
	Genre    string
	Year     string
	Language string
	Quality  string
	Rating   string
	Search   string
	Sort     string
	Order    string
	Page     int
	Limit    int
}

// ListResult is the listing payload the client grid consumes.
type ListResult struct {
	Content    []*models.Content `json:"content"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

type Service struct {
	contentRepo *repository.ContentRepository
	cache       *cache.Cache
	timeout     time.Duration
}

func NewService(contentRepo *repository.ContentRepository, c *cache.Cache, queryTimeout time.Duration) *Service {
	return &Service{contentRepo: contentRepo, cache: c, timeout: queryTimeout}
}

// resolve turns a raw Query into a repository filter plus window. The
// second return is false when the type is set but not one of the four
// catalog types; per the client contract that yields an empty result,
// not an error. Unknown facet labels are dropped, never passed through.
func (s *Service) resolve(q Query) (*repository.ContentFilter, repository.ListParams, bool) {
	params := repository.ListParams{Page: q.Page, Limit: q.Limit}
	params.Normalize()

	if q.Type != "" && !models.ValidContentType(q.Type) {
		return nil, params, false
	}

	f := &repository.ContentFilter{
		Type:     models.ContentType(q.Type),
		Language: q.Language,
		Quality:  q.Quality,
		Search:   q.Search,
		Order:    q.Order,
	}
	f.Sort = sortKeys[q.Sort]
	if f.Sort == "" {
		f.Sort = "created_at"
	}
	if slug, ok := facets.ResolveCategory(f.Type, q.Category); ok {
		f.Category = slug
	}
	if slug, ok := facets.ResolveGenre(q.Genre); ok {
		f.Genre = slug
	}
	if y, err := strconv.Atoi(q.Year); err == nil && y > 1900 {
		f.Year = y
	}
	if r, err := strconv.ParseFloat(q.Rating, 64); err == nil && r > 0 {
		f.MinRating = r
	}
	return f, params, true
}

func (s *Service) List(ctx context.Context, q Query) (*ListResult, error) {
	f, params, ok := s.resolve(q)
	if !ok {
		return &ListResult{Content: []*models.Content{}, Page: params.Page, Limit: params.Limit}, nil
	}

	key := listKey(f, params)
	if data, err := s.cache.Get(ctx, key); err == nil {
		var result ListResult
		if json.Unmarshal(data, &result) == nil {
			return &result, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, total, err := s.contentRepo.ListFiltered(ctx, f, params)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}

	result := &ListResult{
		Content:    items,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: params.TotalPages(total),
	}
	if data, err := json.Marshal(result); err == nil {
		s.cache.Set(ctx, key, data, listCacheTTL)
	}
	return result, nil
}

// Get returns an active content row with categories, genres and cast
// loaded, and counts the view. The cached copy may trail view_count; the
// counter is authoritative in the store.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	if err := s.contentRepo.IncrementViewCount(ctx, id); err != nil {
		log.Printf("[catalog] view count increment failed for %s: %v", id, err)
	}

	key := cachePrefix + "detail:" + id.String()
	if data, err := s.cache.Get(ctx, key); err == nil {
		var c models.Content
		if json.Unmarshal(data, &c) == nil {
			return &c, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	c, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.contentRepo.LoadRelations(ctx, c); err != nil {
		return nil, fmt.Errorf("load relations: %w", err)
	}

	if data, err := json.Marshal(c); err == nil {
		s.cache.Set(ctx, key, data, detailCacheTTL)
	}
	return c, nil
}

// Featured, Trending and Recent are fixed-shape listing calls; they reuse
// the listing cache through List.

func (s *Service) Featured(ctx context.Context, contentType string, limit int) (*ListResult, error) {
	return s.List(ctx, Query{Type: contentType, Sort: "rating", Order: "desc", Limit: limit})
}

func (s *Service) Trending(ctx context.Context, contentType string, limit int) (*ListResult, error) {
	return s.List(ctx, Query{Type: contentType, Sort: "views", Order: "desc", Limit: limit})
}

func (s *Service) Recent(ctx context.Context, contentType string, limit int) (*ListResult, error) {
	return s.List(ctx, Query{Type: contentType, Sort: "newest", Order: "desc", Limit: limit})
}

func (s *Service) Stats(ctx context.Context) ([]models.TypeCount, error) {
	key := cachePrefix + "stats"
	if data, err := s.cache.Get(ctx, key); err == nil {
		var stats []models.TypeCount
		if json.Unmarshal(data, &stats) == nil {
			return stats, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stats, err := s.contentRepo.StatsByType(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(stats); err == nil {
		s.cache.Set(ctx, key, data, statsCacheTTL)
	}
	return stats, nil
}

// Invalidate drops every cached catalog entry. Called after any content
// write or import; expiry is the only other eviction.
func (s *Service) Invalidate(ctx context.Context) {
	s.cache.DeletePrefix(ctx, cachePrefix)
}

// listKey builds a deterministic cache key from the resolved filter and
// window, so equivalent requests share an entry.
func listKey(f *repository.ContentFilter, p repository.ListParams) string {
	return fmt.Sprintf("%slist:%s:%s:%s:%d:%s:%s:%.1f:%s:%s:%s:%d:%d",
		cachePrefix, f.Type, f.Category, f.Genre, f.Year, f.Language, f.Quality,
		f.MinRating, f.Search, f.Sort, f.Order, p.Page, p.Limit)
}
