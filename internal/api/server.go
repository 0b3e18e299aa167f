package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yemenflix/yemenflix-server/internal/auth"
	"github.com/yemenflix/yemenflix-server/internal/catalog"
	"github.com/yemenflix/yemenflix-server/internal/config"
	"github.com/yemenflix/yemenflix-server/internal/db"
	"github.com/yemenflix/yemenflix-server/internal/httputil"
	"github.com/yemenflix/yemenflix-server/internal/jobs"
	"github.com/yemenflix/yemenflix-server/internal/models"
	"github.com/yemenflix/yemenflix-server/internal/repository"
)

type Server struct {
	config         *config.Config
	db             *db.DB
	issuer         *auth.TokenIssuer
	userRepo       *repository.UserRepository
	contentRepo    *repository.ContentRepository
	taxonomyRepo   *repository.TaxonomyRepository
	engagementRepo *repository.EngagementRepository
	catalog        *catalog.Service
	jobQueue       *jobs.Queue
	wsHub          *WSHub
	rlAuthLimiter  *ipRateLimiter
	router         *http.ServeMux
}

func NewServer(cfg *config.Config, database *db.DB, contentRepo *repository.ContentRepository, catalogSvc *catalog.Service, jobQueue *jobs.Queue) *Server {
	s := &Server{
		config:         cfg,
		db:             database,
		issuer:         auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		userRepo:       repository.NewUserRepository(database.DB),
		contentRepo:    contentRepo,
		taxonomyRepo:   repository.NewTaxonomyRepository(database.DB),
		engagementRepo: repository.NewEngagementRepository(database.DB),
		catalog:        catalogSvc,
		jobQueue:       jobQueue,
		wsHub:          NewWSHub(),
		rlAuthLimiter:  newIPRateLimiter(1, 5),
		router:         http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) WSHub() *WSHub {
	return s.wsHub
}

func (s *Server) setupRoutes() {
	// Public
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /api/v1/status", s.handleStatus)
	s.router.HandleFunc("POST /api/v1/auth/register", s.rlAuth(s.handleRegister))
	s.router.HandleFunc("POST /api/v1/auth/login", s.rlAuth(s.handleLogin))

	// Catalog (public). Literal segments win over {key}, so featured,
	// trending, recent and stats never reach the key dispatcher.
	s.router.HandleFunc("GET /api/v1/content", s.handleListContent)
	s.router.HandleFunc("GET /api/v1/content/featured", s.handleFeatured)
	s.router.HandleFunc("GET /api/v1/content/trending", s.handleTrending)
	s.router.HandleFunc("GET /api/v1/content/recent", s.handleRecent)
	s.router.HandleFunc("GET /api/v1/content/stats", s.handleContentStats)
	s.router.HandleFunc("GET /api/v1/content/{key}", s.handleContentByKey)
	s.router.HandleFunc("GET /api/v1/content/{id}/reviews", s.handleListReviews)
	s.router.HandleFunc("GET /api/v1/content/{id}/rating", s.handleCommunityRating)
	s.router.HandleFunc("GET /api/v1/categories", s.handleListCategories)
	s.router.HandleFunc("GET /api/v1/genres", s.handleListGenres)

	// WebSocket
	s.router.HandleFunc("GET /api/v1/ws", s.handleWebSocket)

	// Profile
	s.router.HandleFunc("GET /api/v1/profile", s.authMiddleware(s.handleGetProfile, models.RoleUser))
	s.router.HandleFunc("PUT /api/v1/profile/password", s.authMiddleware(s.handleChangePassword, models.RoleUser))

	// Favorites
	s.router.HandleFunc("GET /api/v1/favorites", s.authMiddleware(s.handleListFavorites, models.RoleUser))
	s.router.HandleFunc("GET /api/v1/favorites/{contentId}", s.authMiddleware(s.handleCheckFavorite, models.RoleUser))
	s.router.HandleFunc("PUT /api/v1/favorites/{contentId}", s.authMiddleware(s.handleAddFavorite, models.RoleUser))
	s.router.HandleFunc("DELETE /api/v1/favorites/{contentId}", s.authMiddleware(s.handleRemoveFavorite, models.RoleUser))

	// Watch history
	s.router.HandleFunc("GET /api/v1/history", s.authMiddleware(s.handleListHistory, models.RoleUser))
	s.router.HandleFunc("PUT /api/v1/history/{contentId}", s.authMiddleware(s.handleUpsertProgress, models.RoleUser))

	// Ratings and reviews
	s.router.HandleFunc("GET /api/v1/content/{id}/my-rating", s.authMiddleware(s.handleGetMyRating, models.RoleUser))
	s.router.HandleFunc("PUT /api/v1/content/{id}/rating", s.authMiddleware(s.handleRateContent, models.RoleUser))
	s.router.HandleFunc("DELETE /api/v1/content/{id}/rating", s.authMiddleware(s.handleDeleteRating, models.RoleUser))
	s.router.HandleFunc("POST /api/v1/content/{id}/reviews", s.authMiddleware(s.handleCreateReview, models.RoleUser))
	s.router.HandleFunc("DELETE /api/v1/reviews/{id}", s.authMiddleware(s.handleDeleteReview, models.RoleUser))

	// Admin: content management
	s.router.HandleFunc("POST /api/v1/admin/content", s.authMiddleware(s.handleCreateContent, models.RoleAdmin))
	s.router.HandleFunc("PUT /api/v1/admin/content/{id}", s.authMiddleware(s.handleUpdateContent, models.RoleAdmin))
	s.router.HandleFunc("DELETE /api/v1/admin/content/{id}", s.authMiddleware(s.handleDeactivateContent, models.RoleAdmin))
	s.router.HandleFunc("POST /api/v1/admin/content/{id}/restore", s.authMiddleware(s.handleRestoreContent, models.RoleAdmin))
	s.router.HandleFunc("PUT /api/v1/admin/content/{id}/categories", s.authMiddleware(s.handleSetContentCategories, models.RoleAdmin))
	s.router.HandleFunc("PUT /api/v1/admin/content/{id}/genres", s.authMiddleware(s.handleSetContentGenres, models.RoleAdmin))
	s.router.HandleFunc("PUT /api/v1/admin/content/{id}/cast", s.authMiddleware(s.handleSetContentCast, models.RoleAdmin))
	s.router.HandleFunc("POST /api/v1/admin/cast", s.authMiddleware(s.handleCreateCastMember, models.RoleAdmin))

	// Admin: users, dashboard, import
	s.router.HandleFunc("GET /api/v1/admin/users", s.authMiddleware(s.handleListUsers, models.RoleAdmin))
	s.router.HandleFunc("PUT /api/v1/admin/users/{id}/active", s.authMiddleware(s.handleSetUserActive, models.RoleAdmin))
	s.router.HandleFunc("GET /api/v1/admin/stats", s.authMiddleware(s.handleAdminStats, models.RoleAdmin))
	s.router.HandleFunc("POST /api/v1/admin/import", s.authMiddleware(s.handleImport, models.RoleAdmin))
}

// ──────────────────── Middleware ────────────────────

func (s *Server) authMiddleware(next http.HandlerFunc, requiredRole models.UserRole) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if t := r.URL.Query().Get("token"); t != "" {
			tokenString = t
		} else {
			s.respondError(w, http.StatusUnauthorized, "missing authorization")
			return
		}

		claims, err := s.issuer.Validate(tokenString)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		if !auth.CheckPermission(claims.Role, requiredRole) {
			s.respondError(w, http.StatusForbidden, "insufficient permissions")
			return
		}

		r.Header.Set("X-User-ID", claims.UserID.String())
		r.Header.Set("X-User-Role", string(claims.Role))

		next(w, r)
	}
}

// ──────────────────── Helpers ────────────────────

func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	httputil.WriteJSON(w, statusCode, data)
}

func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	httputil.WriteError(w, statusCode, message)
}

func (s *Server) getUserID(r *http.Request) uuid.UUID {
	id, _ := uuid.Parse(r.Header.Get("X-User-ID"))
	return id
}

func (s *Server) Handler() http.Handler {
	return s.securityHeadersMiddleware(s.corsMiddleware(s.router))
}

// Close stops the server's background goroutines.
func (s *Server) Close() {
	s.rlAuthLimiter.close()
}

func (s *Server) Start() error {
	return http.ListenAndServe(fmt.Sprintf(":%d", s.config.Port), s.Handler())
}

// securityHeadersMiddleware adds standard security headers to all responses.
func (s *Server) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-XSS-Protection", "0")
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware handles CORS preflight and response headers globally.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, PATCH, OPTIONS")
			w.Header().Set("Access-Control-Max-Age", "86400")
			w.Header().Set("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
