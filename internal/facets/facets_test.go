package facets

import (
	"testing"

	"github.com/yemenflix/yemenflix-server/internal/models"
)

func TestCategoriesForScoping(t *testing.T) {
	movie := CategoriesFor(models.ContentTypeMovie)
	series := CategoriesFor(models.ContentTypeSeries)
	if len(movie) == 0 || len(movie) != len(series) {
		t.Fatalf("movies and series should share one vocabulary, got %d and %d", len(movie), len(series))
	}

	tv := CategoriesFor(models.ContentTypeTV)
	misc := CategoriesFor(models.ContentTypeMisc)
	if len(tv) == 0 || len(misc) == 0 {
		t.Fatal("tv and misc vocabularies must not be empty")
	}

	tvSlugs := map[string]bool{}
	for _, c := range tv {
		tvSlugs[c.Slug] = true
	}
	for _, c := range movie {
		if tvSlugs[c.Slug] {
			t.Errorf("slug %q appears in both movie and tv vocabularies", c.Slug)
		}
	}
}

func TestCategoriesForEmptyTypeIsUnion(t *testing.T) {
	all := CategoriesFor("")
	seen := map[string]bool{}
	for _, c := range all {
		if seen[c.Slug] {
			t.Errorf("duplicate slug %q in union", c.Slug)
		}
		seen[c.Slug] = true
	}
	for _, tc := range []models.ContentType{
		models.ContentTypeMovie, models.ContentTypeTV, models.ContentTypeMisc,
	} {
		for _, c := range CategoriesFor(tc) {
			if !seen[c.Slug] {
				t.Errorf("union missing %q from %s vocabulary", c.Slug, tc)
			}
		}
	}
}

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		name     string
		t        models.ContentType
		label    string
		wantSlug string
		wantOK   bool
	}{
		{"slug", models.ContentTypeMovie, "arabic", "arabic", true},
		{"english name", models.ContentTypeMovie, "Turkish", "turkish", true},
		{"arabic label", models.ContentTypeMovie, "أجنبي", "foreign", true},
		{"arabic tv label", models.ContentTypeTV, "مصارعة", "wrestling", true},
		{"out of scope", models.ContentTypeTV, "arabic", "", false},
		{"unknown", models.ContentTypeMovie, "nope", "", false},
		{"empty", models.ContentTypeMovie, "", "", false},
		{"misc", models.ContentTypeMisc, "مسرحيات", "plays", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, ok := ResolveCategory(tt.t, tt.label)
			if slug != tt.wantSlug || ok != tt.wantOK {
				t.Errorf("ResolveCategory(%q, %q) = (%q, %v), want (%q, %v)",
					tt.t, tt.label, slug, ok, tt.wantSlug, tt.wantOK)
			}
		})
	}
}

func TestResolveGenre(t *testing.T) {
	if slug, ok := ResolveGenre("دراما"); !ok || slug != "drama" {
		t.Errorf("ResolveGenre(دراما) = (%q, %v), want (drama, true)", slug, ok)
	}
	if slug, ok := ResolveGenre("action"); !ok || slug != "action" {
		t.Errorf("ResolveGenre(action) = (%q, %v), want (action, true)", slug, ok)
	}
	if _, ok := ResolveGenre("unknown-genre"); ok {
		t.Error("unknown genre should not resolve")
	}
}
