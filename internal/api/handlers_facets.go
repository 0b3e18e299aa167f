package api

import (
	"net/http"

	"github.com/yemenflix/yemenflix-server/internal/facets"
	"github.com/yemenflix/yemenflix-server/internal/models"
)

// handleListCategories returns the category vocabulary. With ?type= it
// serves the static per-type scope the filter accepts; without it the
// full table, descriptions included.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	t := r.URL.Query().Get("type")
	if t != "" {
		if !models.ValidContentType(t) {
			s.respondJSON(w, http.StatusOK, []facets.CategoryDef{})
			return
		}
		s.respondJSON(w, http.StatusOK, facets.CategoriesFor(models.ContentType(t)))
		return
	}

	cats, err := s.taxonomyRepo.ListCategories(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	s.respondJSON(w, http.StatusOK, cats)
}

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.taxonomyRepo.ListGenres(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list genres")
		return
	}
	s.respondJSON(w, http.StatusOK, genres)
}
