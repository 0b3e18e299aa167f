package jobs

import (
	"reflect"
	"testing"

	"github.com/yemenflix/yemenflix-server/internal/models"
)

func TestResolveCategorySlugs(t *testing.T) {
	got := resolveCategorySlugs(models.ContentTypeMovie, []string{"عربي", "Turkish", "bogus", "anime"})
	want := []string{"arabic", "turkish", "anime"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("resolveCategorySlugs = %v, want %v", got, want)
	}
}

func TestResolveCategorySlugsRespectsTypeScope(t *testing.T) {
	// A movie category label must not resolve under the tv vocabulary.
	if got := resolveCategorySlugs(models.ContentTypeTV, []string{"arabic"}); got != nil {
		t.Errorf("expected nothing, got %v", got)
	}
}

func TestResolveGenreSlugs(t *testing.T) {
	got := resolveGenreSlugs([]string{"دراما", "action", "nope"})
	want := []string{"drama", "action"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("resolveGenreSlugs = %v, want %v", got, want)
	}
}
