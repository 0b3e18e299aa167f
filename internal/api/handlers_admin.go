package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yemenflix/yemenflix-server/internal/httputil"
	"github.com/yemenflix/yemenflix-server/internal/jobs"
	"github.com/yemenflix/yemenflix-server/internal/models"
	"github.com/yemenflix/yemenflix-server/internal/repository"
)

// ContentRequest is the admin create/update payload. Category and genre
// values are vocabulary slugs or labels; unknown ones are dropped.
type ContentRequest struct {
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
}

func (req *ContentRequest) validate() string {
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.TitleAr) == "" {
		return "title or title_ar is required"
	}
	if !models.ValidContentType(req.Type) {
		return "type must be one of movie, series, tv, misc"
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 10) {
		return "rating must be between 0 and 10"
	}
	return ""
}

func (req *ContentRequest) apply(c *models.Content) {
	c.Title = strings.TrimSpace(req.Title)
	c.TitleAr = strings.TrimSpace(req.TitleAr)
	c.Description = req.Description
	c.DescriptionAr = req.DescriptionAr
	c.Type = models.ContentType(req.Type)
	c.Year = req.Year
	c.Language = req.Language
	c.Quality = req.Quality
	c.Resolution = req.Resolution
	c.Rating = req.Rating
	c.DurationMinutes = req.DurationMinutes
	c.Episodes = req.Episodes
	c.PosterURL = req.PosterURL
	c.VideoURL = req.VideoURL
	c.DownloadURL = req.DownloadURL
	c.TrailerURL = req.TrailerURL
	c.IMDBID = req.IMDBID
	c.TMDBID = req.TMDBID
}

func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	var req ContentRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	c := &models.Content{IsActive: true}
	req.apply(c)
	if err := s.contentRepo.Create(r.Context(), c); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to create content")
		return
	}

	s.catalog.Invalidate(r.Context())
	s.respondJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	var req ContentRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	c := &models.Content{ID: id}
	req.apply(c)
	err = s.contentRepo.Update(r.Context(), c)
	if errors.Is(err, repository.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "content not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to update content")
		return
	}

	s.catalog.Invalidate(r.Context())
	if fresh, err := s.contentRepo.GetByID(r.Context(), id); err == nil {
		c = fresh
	}
	s.respondJSON(w, http.StatusOK, c)
}

// handleDeactivateContent soft-deletes: the row stays for history joins
// but vanishes from every public read.
func (s *Server) handleDeactivateContent(w http.ResponseWriter, r *http.Request) {
	s.setContentActive(w, r, false)
}

func (s *Server) handleRestoreContent(w http.ResponseWriter, r *http.Request) {
	s.setContentActive(w, r, true)
}

func (s *Server) setContentActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	err = s.contentRepo.SetActive(r.Context(), id, active)
	if errors.Is(err, repository.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "content not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to update content")
		return
	}
	s.catalog.Invalidate(r.Context())
	s.respondJSON(w, http.StatusOK, map[string]bool{"is_active": active})
}

func (s *Server) handleSetContentCategories(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	var req struct {
		Categories []string `json:"categories"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.contentRepo.SetCategories(r.Context(), id, req.Categories); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to set categories")
		return
	}
	s.catalog.Invalidate(r.Context())
	s.respondJSON(w, http.StatusOK, map[string][]string{"categories": req.Categories})
}

func (s *Server) handleSetContentGenres(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	var req struct {
		Genres []string `json:"genres"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.contentRepo.SetGenres(r.Context(), id, req.Genres); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to set genres")
		return
	}
	s.catalog.Invalidate(r.Context())
	s.respondJSON(w, http.StatusOK, map[string][]string{"genres": req.Genres})
}

func (s *Server) handleSetContentCast(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	var req struct {
		Cast []repository.CastCredit `json:"cast"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.contentRepo.SetCast(r.Context(), id, req.Cast); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to set cast")
		return
	}
	s.catalog.Invalidate(r.Context())
	s.respondJSON(w, http.StatusOK, map[string]int{"cast": len(req.Cast)})
}

func (s *Server) handleCreateCastMember(w http.ResponseWriter, r *http.Request) {
	var cm models.CastMember
	if err := httputil.ReadJSON(r, &cm); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(cm.Name) == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := s.taxonomyRepo.CreateCastMember(r.Context(), &cm); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to create cast member")
		return
	}
	s.respondJSON(w, http.StatusCreated, cm)
}

// ──────────────────── Users ────────────────────

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userRepo.List(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	s.respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleSetUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req struct {
		Active bool `json:"active"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err = s.userRepo.SetActive(r.Context(), id, req.Active)
	if errors.Is(err, repository.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"is_active": req.Active})
}

// ──────────────────── Dashboard ────────────────────

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	byType, err := s.contentRepo.StatsByType(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load content stats")
		return
	}
	topViewed, err := s.contentRepo.Trending(r.Context(), "", 10)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load top viewed")
		return
	}
	newUsers, err := s.userRepo.CountSince(r.Context(), 7)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load user stats")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"content_by_type": byType,
		"top_viewed":      topViewed,
		"new_users_7d":    newUsers,
		"ws_clients":      s.wsHub.ClientCount(),
	})
}

// ──────────────────── Import ────────────────────

// handleImport enqueues a bulk catalog import. The task ID is derived
// from the payload hash, so re-posting the same dump while it is queued
// or running does not start a second import.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var payload jobs.ImportPayload
	if err := httputil.ReadJSON(r, &payload); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(payload.Items) == 0 {
		s.respondError(w, http.StatusBadRequest, "no items to import")
		return
	}
	payload.RequestedBy = r.Header.Get("X-User-ID")

	raw, err := json.Marshal(payload.Items)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to encode payload")
		return
	}
	sum := sha256.Sum256(raw)
	taskID := "import:catalog:" + hex.EncodeToString(sum[:])[:16]

	id, err := s.jobQueue.EnqueueUnique(jobs.TaskImportCatalog, payload, taskID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to enqueue import")
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"task_id": id,
		"items":   len(payload.Items),
	})
}
