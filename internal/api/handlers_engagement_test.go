package api

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/yemenflix/yemenflix-server/internal/repository"
	"github.com/yemenflix/yemenflix-server/internal/search"
)

// closedDB returns a *sql.DB whose every query fails with a store error,
// without needing a running database.
func closedDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", "postgres://localhost:1/none?sslmode=disable")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	db.Close()
	return db
}

func testEngagementServer(t *testing.T) *Server {
	db := closedDB(t)
	return &Server{
		contentRepo:    repository.NewContentRepository(db, search.Options{}),
		engagementRepo: repository.NewEngagementRepository(db),
	}
}

// A failing store during the content-existence check must surface as a
// 5xx, not masquerade as a missing row.
func TestEngagementWritesSurfaceStoreErrorsAs500(t *testing.T) {
	s := testEngagementServer(t)
	contentID := uuid.NewString()

	tests := []struct {
		name    string
		method  string
		pathKey string
		body    string
		handler http.HandlerFunc
	}{
		{"add favorite", http.MethodPut, "contentId", "", s.handleAddFavorite},
		{"watch progress", http.MethodPut, "contentId", `{"progress_minutes":12}`, s.handleUpsertProgress},
		{"rate", http.MethodPut, "id", `{"rating":8}`, s.handleRateContent},
		{"review", http.MethodPost, "id", `{"body":"جميل"}`, s.handleCreateReview},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			req.SetPathValue(tt.pathKey, contentID)
			req.Header.Set("X-User-ID", uuid.NewString())

			rec := httptest.NewRecorder()
			tt.handler(rec, req)

			if rec.Code != http.StatusInternalServerError {
				t.Errorf("status = %d, want 500 (body %s)", rec.Code, rec.Body.String())
			}
			if strings.Contains(rec.Body.String(), "not found") {
				t.Errorf("store error reported as a missing row: %s", rec.Body.String())
			}
		})
	}
}

// The admin review delete goes through the repository with the request
// context; a store failure is a 500, not a missing-review 404.
func TestDeleteReviewAdminPathUsesRepository(t *testing.T) {
	s := testEngagementServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req.SetPathValue("id", uuid.NewString())
	req.Header.Set("X-User-ID", uuid.NewString())
	req.Header.Set("X-User-Role", "admin")

	rec := httptest.NewRecorder()
	s.handleDeleteReview(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 (body %s)", rec.Code, rec.Body.String())
	}
}
