package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/yemenflix/yemenflix-server/internal/cache"
	"github.com/yemenflix/yemenflix-server/internal/models"
	"github.com/yemenflix/yemenflix-server/internal/repository"
)

func testService() *Service {
	return NewService(nil, cache.New(""), 5*time.Second)
}

func TestResolveInvalidTypeYieldsEmptyResult(t *testing.T) {
	s := testService()
	_, _, ok := s.resolve(Query{Type: "podcast"})
	if ok {
		t.Error("unknown type must not resolve")
	}
}

func TestResolveValidQuery(t *testing.T) {
	s := testService()
	f, params, ok := s.resolve(Query{
		Type:     "movie",
		Category: "عربي",
		Genre:    "أكشن",
		Year:     "2023",
		Rating:   "7.5",
		Sort:     "views",
		Order:    "asc",
		Page:     2,
		Limit:    12,
	})
	if !ok {
		t.Fatal("query should resolve")
	}
	if f.Type != models.ContentTypeMovie {
		t.Errorf("type = %q", f.Type)
	}
	if f.Category != "arabic" {
		t.Errorf("category = %q, want resolved slug", f.Category)
	}
	if f.Genre != "action" {
		t.Errorf("genre = %q, want resolved slug", f.Genre)
	}
	if f.Year != 2023 || f.MinRating != 7.5 {
		t.Errorf("year=%d rating=%v", f.Year, f.MinRating)
	}
	if f.Sort != "view_count" {
		t.Errorf("sort alias views should map to view_count, got %q", f.Sort)
	}
	if params.Page != 2 || params.Limit != 12 {
		t.Errorf("params = %+v", params)
	}
}

func TestResolveDropsUnknownFacets(t *testing.T) {
	s := testService()
	f, _, ok := s.resolve(Query{
		Type:     "tv",
		Category: "arabic", // movie-scoped, invalid for tv
		Genre:    "no-such-genre",
		Year:     "not-a-year",
		Rating:   "NaNish",
	})
	if !ok {
		t.Fatal("query should resolve")
	}
	if f.Category != "" || f.Genre != "" || f.Year != 0 || f.MinRating != 0 {
		t.Errorf("unknown facets should be dropped, got %+v", f)
	}
}

func TestResolveUnknownSortFallsBack(t *testing.T) {
	s := testService()
	f, _, ok := s.resolve(Query{Sort: "bogus"})
	if !ok {
		t.Fatal("query should resolve")
	}
	if f.Sort != "created_at" {
		t.Errorf("sort = %q, want created_at", f.Sort)
	}
}

func TestListKeyDeterministic(t *testing.T) {
	f := &repository.ContentFilter{Type: models.ContentTypeMovie, Category: "arabic", MinRating: 7.5}
	p := repository.ListParams{Page: 2, Limit: 24}
	if listKey(f, p) != listKey(f, p) {
		t.Error("same filter must produce the same key")
	}
	if !strings.HasPrefix(listKey(f, p), cachePrefix) {
		t.Errorf("key %q should carry the catalog prefix", listKey(f, p))
	}

	p2 := repository.ListParams{Page: 3, Limit: 24}
	if listKey(f, p) == listKey(f, p2) {
		t.Error("different pages must not share a key")
	}
	f2 := &repository.ContentFilter{Type: models.ContentTypeMovie, Category: "turkish", MinRating: 7.5}
	if listKey(f, p) == listKey(f2, p) {
		t.Error("different filters must not share a key")
	}
}

func TestListInvalidTypeReturnsEmptyPage(t *testing.T) {
	s := testService()
	// Repo is nil: the empty-result path must short-circuit before any query.
	result, err := s.List(context.Background(), Query{Type: "podcast", Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(result.Content) != 0 || result.Total != 0 || result.TotalPages != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
	if result.Page != 3 || result.Limit != 10 {
		t.Errorf("window should be echoed back clamped, got page=%d limit=%d", result.Page, result.Limit)
	}
}
