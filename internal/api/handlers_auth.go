package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/yemenflix/yemenflix-server/internal/auth"
	"github.com/yemenflix/yemenflix-server/internal/httputil"
	"github.com/yemenflix/yemenflix-server/internal/models"
	"github.com/yemenflix/yemenflix-server/internal/repository"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = auth.NormalizeEmail(req.Email)
	if req.Username == "" || req.Email == "" {
		s.respondError(w, http.StatusBadRequest, "username and email are required")
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		s.respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	if _, err := s.userRepo.GetByUsername(r.Context(), req.Username); err == nil {
		s.respondError(w, http.StatusConflict, "username already taken")
		return
	}
	if _, err := s.userRepo.GetByEmail(r.Context(), req.Email); err == nil {
		s.respondError(w, http.StatusConflict, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := s.userRepo.Create(r.Context(), user); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	s.respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.userRepo.GetByUsername(r.Context(), strings.TrimSpace(req.Username))
	if errors.Is(err, repository.ErrNotFound) {
		// Also accept the email address in the username field.
		user, err = s.userRepo.GetByEmail(r.Context(), auth.NormalizeEmail(req.Username))
	}
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if !user.IsActive {
		s.respondError(w, http.StatusForbidden, "account is disabled")
		return
	}

	token, err := s.issuer.Generate(user)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	s.respondJSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.userRepo.GetByID(r.Context(), s.getUserID(r))
	if err != nil {
		s.respondError(w, http.StatusNotFound, "user not found")
		return
	}
	s.respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := httputil.ReadJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.userRepo.GetByID(r.Context(), s.getUserID(r))
	if err != nil {
		s.respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		s.respondError(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		s.respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	if err := s.userRepo.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to update password")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
