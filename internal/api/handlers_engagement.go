package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yemenflix/yemenflix-server/internal/httputil"
	"github.com/yemenflix/yemenflix-server/internal/models"
	"github.com/yemenflix/yemenflix-server/internal/repository"
)

// ensureContent verifies an active content row exists before an engagement
// write. A missing row is 404; a store failure stays 5xx, it is never
// reported as a missing row.
func (s *Server) ensureContent(w http.ResponseWriter, r *http.Request, contentID uuid.UUID) bool {
	if _, err := s.contentRepo.GetByID(r.Context(), contentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "content not found")
		} else {
			s.respondError(w, http.StatusInternalServerError, "failed to load content")
		}
		return false
	}
	return true
}

// ──────────────────── Favorites ────────────────────

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := s.engagementRepo.ListFavorites(r.Context(), s.getUserID(r))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list favorites")
		return
	}
	s.respondJSON(w, http.StatusOK, favs)
}

// handleAddFavorite is an ensure-exists write: repeating it for a content
// the user already favorited succeeds without change.
func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuid.Parse(r.PathValue("contentId"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	if !s.ensureContent(w, r, contentID) {
		return
	}
	if err := s.engagementRepo.AddFavorite(r.Context(), s.getUserID(r), contentID); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to add favorite")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"is_favorite": true})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuid.Parse(r.PathValue("contentId"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	if err := s.engagementRepo.RemoveFavorite(r.Context(), s.getUserID(r), contentID); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to remove favorite")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"is_favorite": false})
}

func (s *Server) handleCheckFavorite(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuid.Parse(r.PathValue("contentId"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	isFav, err := s.engagementRepo.IsFavorite(r.Context(), s.getUserID(r), contentID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to check favorite")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"is_favorite": isFav})
}

// ──────────────────── Watch history ────────────────────

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > repository.MaxLimit {
		limit = repository.DefaultLimit
	}
	entries, err := s.engagementRepo.ListHistory(r.Context(), s.getUserID(r), limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	s.respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleUpsertProgress(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuid.Parse(r.PathValue("contentId"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	var req struct {
		ProgressMinutes int `json:"progress_minutes"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProgressMinutes < 0 {
		s.respondError(w, http.StatusBadRequest, "progress must not be negative")
		return
	}
	if !s.ensureContent(w, r, contentID) {
		return
	}

	wh := &models.WatchHistory{
		UserID:          s.getUserID(r),
		ContentID:       contentID,
		ProgressMinutes: req.ProgressMinutes,
	}
	if err := s.engagementRepo.UpsertProgress(r.Context(), wh); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to record progress")
		return
	}
	s.respondJSON(w, http.StatusOK, wh)
}

// ──────────────────── Ratings ────────────────────

func (s *Server) handleRateContent(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	var req struct {
		Rating float64 `json:"rating"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rating < 0 || req.Rating > 10 {
		s.respondError(w, http.StatusBadRequest, "rating must be between 0 and 10")
		return
	}
	if !s.ensureContent(w, r, contentID) {
		return
	}
	if err := s.engagementRepo.UpsertRating(r.Context(), s.getUserID(r), contentID, req.Rating); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to save rating")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]float64{"rating": req.Rating})
}

func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	if err := s.engagementRepo.DeleteRating(r.Context(), s.getUserID(r), contentID); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to delete rating")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "rating removed"})
}

func (s *Server) handleGetMyRating(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	rating, err := s.engagementRepo.GetUserRating(r.Context(), s.getUserID(r), contentID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load rating")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]*float64{"rating": rating})
}

func (s *Server) handleCommunityRating(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	cr, err := s.engagementRepo.CommunityRating(r.Context(), contentID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to load rating")
		return
	}
	s.respondJSON(w, http.StatusOK, cr)
}

// ──────────────────── Reviews ────────────────────

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	var req struct {
		Rating *float64 `json:"rating,omitempty"`
		Body   string   `json:"body"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		s.respondError(w, http.StatusBadRequest, "review body is required")
		return
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 10) {
		s.respondError(w, http.StatusBadRequest, "rating must be between 0 and 10")
		return
	}
	if !s.ensureContent(w, r, contentID) {
		return
	}

	review := &models.Review{
		UserID:    s.getUserID(r),
		ContentID: contentID,
		Rating:    req.Rating,
		Body:      req.Body,
	}
	if err := s.engagementRepo.CreateReview(r.Context(), review); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to create review")
		return
	}
	s.respondJSON(w, http.StatusCreated, review)
}

// handleDeleteReview removes the caller's own review; admins may remove
// anyone's.
func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid review id")
		return
	}

	if r.Header.Get("X-User-Role") == string(models.RoleAdmin) {
		err = s.engagementRepo.DeleteReviewByID(r.Context(), reviewID)
	} else {
		err = s.engagementRepo.DeleteReview(r.Context(), reviewID, s.getUserID(r))
	}
	if errors.Is(err, repository.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "review not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to delete review")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "review removed"})
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	contentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid content id")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > repository.MaxLimit {
		limit = repository.DefaultLimit
	}
	reviews, err := s.engagementRepo.ListReviews(r.Context(), contentID, limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	s.respondJSON(w, http.StatusOK, reviews)
}
