package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/yemenflix/yemenflix-server/internal/facets"
	"github.com/yemenflix/yemenflix-server/internal/models"
	"github.com/yemenflix/yemenflix-server/internal/repository"
)

// ImportItem is one entry of a bulk catalog dump. Category and genre
// values may be slugs or Arabic/English labels; unresolvable ones are
// skipped with a log line rather than failing the whole import.
type ImportItem struct {
	Title           string   `json:"title"`
	TitleAr         string   `json:"title_ar"`
	Description     *string  `json:"description,omitempty"`
	DescriptionAr   *string  `json:"description_ar,omitempty"`
	Type            string   `json:"type"`
	Year            *int     `json:"year,omitempty"`
	Language        *string  `json:"language,omitempty"`
	Quality         *string  `json:"quality,omitempty"`
	Resolution      *string  `json:"resolution,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	Episodes        *int     `json:"episodes,omitempty"`
	PosterURL       *string  `json:"poster_url,omitempty"`
	VideoURL        *string  `json:"video_url,omitempty"`
	DownloadURL     *string  `json:"download_url,omitempty"`
	TrailerURL      *string  `json:"trailer_url,omitempty"`
	IMDBID          *string  `json:"imdb_id,omitempty"`
	TMDBID          *int     `json:"tmdb_id,omitempty"`
	Categories      []string `json:"categories,omitempty"`
	Genres          []string `json:"genres,omitempty"`
}

type ImportPayload struct {
	Items       []ImportItem `json:"items"`
	RequestedBy string       `json:"requested_by"`
}

// ImportResult is broadcast to admin websocket clients when the job ends.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// Invalidator drops cached catalog reads after a bulk write; the catalog
// service implements it.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Importer struct {
	contentRepo *repository.ContentRepository
	invalidator Invalidator
	notifier    Notifier
}

func NewImporter(contentRepo *repository.ContentRepository, inv Invalidator, n Notifier) *Importer {
	return &Importer{contentRepo: contentRepo, invalidator: inv, notifier: n}
}

func (i *Importer) HandleImport(ctx context.Context, task *asynq.Task) error {
	var payload ImportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal import payload: %w", err)
	}

	log.Printf("[jobs] import started: %d items (requested by %s)", len(payload.Items), payload.RequestedBy)
	i.notify("import:started", map[string]interface{}{"total": len(payload.Items)})

	result := ImportResult{}
	for idx, item := range payload.Items {
		if err := i.importOne(ctx, item); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("item %d (%s): %v", idx, item.Title, err))
			continue
		}
		result.Imported++
		if (idx+1)%50 == 0 {
			i.notify("import:progress", map[string]interface{}{
				"done":  idx + 1,
				"total": len(payload.Items),
			})
		}
	}

	if i.invalidator != nil {
		i.invalidator.Invalidate(ctx)
	}

	log.Printf("[jobs] import finished: %d imported, %d skipped", result.Imported, result.Skipped)
	i.notify("import:finished", result)
	return nil
}

func (i *Importer) importOne(ctx context.Context, item ImportItem) error {
	if item.Title == "" && item.TitleAr == "" {
		return fmt.Errorf("missing title")
	}
	if !models.ValidContentType(item.Type) {
		return fmt.Errorf("unknown type %q", item.Type)
	}

	c := &models.Content{
		Title:           item.Title,
		TitleAr:         item.TitleAr,
		Description:     item.Description,
		DescriptionAr:   item.DescriptionAr,
		Type:            models.ContentType(item.Type),
		Year:            item.Year,
		Language:        item.Language,
		Quality:         item.Quality,
		Resolution:      item.Resolution,
		Rating:          item.Rating,
		DurationMinutes: item.DurationMinutes,
		Episodes:        item.Episodes,
		PosterURL:       item.PosterURL,
		VideoURL:        item.VideoURL,
		DownloadURL:     item.DownloadURL,
		TrailerURL:      item.TrailerURL,
		IMDBID:          item.IMDBID,
		TMDBID:          item.TMDBID,
		IsActive:        true,
	}
	if err := i.contentRepo.Create(ctx, c); err != nil {
		return err
	}

	if slugs := resolveCategorySlugs(c.Type, item.Categories); len(slugs) > 0 {
		if err := i.contentRepo.SetCategories(ctx, c.ID, slugs); err != nil {
			return fmt.Errorf("link categories: %w", err)
		}
	}
	if slugs := resolveGenreSlugs(item.Genres); len(slugs) > 0 {
		if err := i.contentRepo.SetGenres(ctx, c.ID, slugs); err != nil {
			return fmt.Errorf("link genres: %w", err)
		}
	}
	return nil
}

func resolveCategorySlugs(t models.ContentType, labels []string) []string {
	var slugs []string
	for _, label := range labels {
		if slug, ok := facets.ResolveCategory(t, label); ok {
			slugs = append(slugs, slug)
		} else {
			log.Printf("[jobs] unknown category %q for type %s, skipping", label, t)
		}
	}
	return slugs
}

func resolveGenreSlugs(labels []string) []string {
	var slugs []string
	for _, label := range labels {
		if slug, ok := facets.ResolveGenre(label); ok {
			slugs = append(slugs, slug)
		} else {
			log.Printf("[jobs] unknown genre %q, skipping", label)
		}
	}
	return slugs
}

func (i *Importer) notify(event string, data interface{}) {
	if i.notifier != nil {
		i.notifier.Broadcast(event, data)
	}
}
