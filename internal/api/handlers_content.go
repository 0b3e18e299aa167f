package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/yemenflix/yemenflix-server/internal/catalog"
	"github.com/yemenflix/yemenflix-server/internal/models"
	"github.com/yemenflix/yemenflix-server/internal/repository"
	"github.com/yemenflix/yemenflix-server/internal/version"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	info := version.Load()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":       info.Name,
		"version":    info.Version,
		"ws_clients": s.wsHub.ClientCount(),
	})
}

// queryFromRequest maps listing query parameters onto a catalog query.
// Everything arrives as strings; the catalog service owns validation.
func queryFromRequest(r *http.Request) catalog.Query {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return catalog.Query{
		Type:     q.Get("type"),
		Category: q.Get("category"),
		Genre:    q.Get("genre"),
		Year:     q.Get("year"),
		Language: q.Get("language"),
		Quality:  q.Get("quality"),
		Rating:   q.Get("rating"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Order:    q.Get("order"),
		Page:     page,
		Limit:    limit,
	}
}

func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	result, err := s.catalog.List(r.Context(), queryFromRequest(r))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list content")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// handleContentByKey serves both /content/{id} and /content/{type}. A key
// that parses as a UUID is a detail lookup; anything else is treated as a
// type-scoped listing, which yields an empty page for unknown types.
func (s *Server) handleContentByKey(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if id, err := uuid.Parse(key); err == nil {
		c, err := s.catalog.Get(r.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "content not found")
			return
		}
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, "failed to load content")
			return
		}
		s.respondJSON(w, http.StatusOK, c)
		return
	}

	q := queryFromRequest(r)
	q.Type = key
	result, err := s.catalog.List(r.Context(), q)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list content")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result, err := s.catalog.Featured(r.Context(), r.URL.Query().Get("type"), limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load featured content")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result, err := s.catalog.Trending(r.Context(), r.URL.Query().Get("type"), limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load trending content")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result, err := s.catalog.Recent(r.Context(), r.URL.Query().Get("type"), limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load recent content")
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleContentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.catalog.Stats(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string][]models.TypeCount{"content": stats})
}
