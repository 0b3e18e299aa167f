// Package facets owns the static filter vocabularies the client exposes.
// Category vocabularies are scoped per content type: movies and series share
// one set, tv and misc each carry their own. The resolver maps the labels
// the UI sends (Arabic or slug) onto category slugs, and drops anything
// outside the vocabulary for the requested type so a stray label can never
// select an unrelated category.
package facets

import (
	"github.com/yemenflix/yemenflix-server/internal/models"
)

type CategoryDef struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	NameAr string `json:"name_ar"`
}

var movieSeriesCategories = []CategoryDef{
	{Slug: "arabic", Name: "Arabic", NameAr: "عربي"},
	{Slug: "foreign", Name: "Foreign", NameAr: "أجنبي"},
	{Slug: "indian", Name: "Indian", NameAr: "هندي"},
	{Slug: "turkish", Name: "Turkish", NameAr: "تركي"},
	{Slug: "asian", Name: "Asian", NameAr: "آسيوي"},
	{Slug: "anime", Name: "Anime", NameAr: "أنمي"},
	{Slug: "dubbed", Name: "Dubbed", NameAr: "مدبلج"},
}

var tvCategories = []CategoryDef{
	{Slug: "programs", Name: "TV Programs", NameAr: "برامج تلفزيونية"},
	{Slug: "wrestling", Name: "Wrestling", NameAr: "مصارعة"},
	{Slug: "sports", Name: "Sports", NameAr: "رياضة"},
	{Slug: "documentaries", Name: "Documentaries", NameAr: "وثائقيات"},
	{Slug: "talk-shows", Name: "Talk Shows", NameAr: "برامج حوارية"},
}

var miscCategories = []CategoryDef{
	{Slug: "plays", Name: "Plays", NameAr: "مسرحيات"},
	{Slug: "concerts", Name: "Concerts", NameAr: "حفلات"},
	{Slug: "songs", Name: "Songs", NameAr: "أغاني"},
	{Slug: "quran", Name: "Quran", NameAr: "قرآن كريم"},
	{Slug: "shorts", Name: "Short Films", NameAr: "أفلام قصيرة"},
}

// GenreDef mirrors CategoryDef; genres are cross-type.
type GenreDef struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	NameAr string `json:"name_ar"`
}

var genres = []GenreDef{
	{Slug: "action", Name: "Action", NameAr: "أكشن"},
	{Slug: "drama", Name: "Drama", NameAr: "دراما"},
	{Slug: "comedy", Name: "Comedy", NameAr: "كوميديا"},
	{Slug: "romance", Name: "Romance", NameAr: "رومانسي"},
	{Slug: "thriller", Name: "Thriller", NameAr: "إثارة"},
	{Slug: "horror", Name: "Horror", NameAr: "رعب"},
	{Slug: "crime", Name: "Crime", NameAr: "جريمة"},
	{Slug: "fantasy", Name: "Fantasy", NameAr: "فانتازيا"},
	{Slug: "science-fiction", Name: "Science Fiction", NameAr: "خيال علمي"},
	{Slug: "adventure", Name: "Adventure", NameAr: "مغامرة"},
	{Slug: "family", Name: "Family", NameAr: "عائلي"},
	{Slug: "history", Name: "History", NameAr: "تاريخي"},
	{Slug: "war", Name: "War", NameAr: "حربي"},
	{Slug: "documentary", Name: "Documentary", NameAr: "وثائقي"},
}

// CategoriesFor returns the category vocabulary for one content type.
// An empty type returns the union (deduplicated, movie/series set first).
func CategoriesFor(t models.ContentType) []CategoryDef {
	switch t {
	case models.ContentTypeMovie, models.ContentTypeSeries:
		return movieSeriesCategories
	case models.ContentTypeTV:
		return tvCategories
	case models.ContentTypeMisc:
		return miscCategories
	}
	all := make([]CategoryDef, 0, len(movieSeriesCategories)+len(tvCategories)+len(miscCategories))
	all = append(all, movieSeriesCategories...)
	all = append(all, tvCategories...)
	all = append(all, miscCategories...)
	return all
}

func Genres() []GenreDef {
	return genres
}

// ResolveCategory maps a client-supplied category label to a slug within
// the vocabulary of the given type. The label may be the slug itself, the
// English name, or the Arabic name. Returns ("", false) when the label is
// unknown for that type — callers drop the facet instead of querying it.
func ResolveCategory(t models.ContentType, label string) (string, bool) {
	if label == "" {
		return "", false
	}
	for _, c := range CategoriesFor(t) {
		if label == c.Slug || label == c.Name || label == c.NameAr {
			return c.Slug, true
		}
	}
	return "", false
}

// ResolveGenre maps a genre label (slug, English, or Arabic) to its slug.
func ResolveGenre(label string) (string, bool) {
	if label == "" {
		return "", false
	}
	for _, g := range genres {
		if label == g.Slug || label == g.Name || label == g.NameAr {
			return g.Slug, true
		}
	}
	return "", false
}
