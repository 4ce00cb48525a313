package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/schemer-edu/schemer-server/internal/auth"
	"github.com/schemer-edu/schemer-server/internal/models"
	"github.com/schemer-edu/schemer-server/internal/session"
	"github.com/schemer-edu/schemer-server/internal/storage"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to register")
		return
	}

	account := &models.Account{
		ID:           uuid.New().String(),
		Email:        req.Email,
		FullName:     req.FullName,
		UserType:     req.UserType,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateAccount(r.Context(), account); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			respondError(w, http.StatusConflict, "email_taken", "email already registered")
			return
		}
		slog.Error("failed to create account", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to register")
		return
	}

	slog.Info("account registered", "user", account.ID, "user_type", account.UserType)
	respondJSON(w, http.StatusCreated, account)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	account, err := s.repo.GetAccountByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
			return
		}
		slog.Error("failed to look up account", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to log in")
		return
	}

	if !auth.CheckPassword(account.PasswordHash, req.Password) {
		slog.Warn("failed login attempt", "email", req.Email, "remote_addr", r.RemoteAddr)
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}

	token, err := models.GenerateSessionToken()
	if err != nil {
		slog.Error("failed to generate session token", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to log in")
		return
	}

	sess := session.Session{
		UserID:   account.ID,
		Email:    account.Email,
		UserType: string(account.UserType),
	}
	if err := s.sessions.Create(r.Context(), token, sess, s.sessionTTL); err != nil {
		slog.Error("failed to create session", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to log in")
		return
	}

	if err := s.repo.TouchLastLogin(r.Context(), account.ID); err != nil {
		slog.Warn("failed to update last login", "error", err, "user", account.ID)
	}

	slog.Info("user logged in", "user", account.ID)
	respondJSON(w, http.StatusOK, models.LoginResponse{
		Token:    token,
		UserID:   account.ID,
		Email:    account.Email,
		FullName: account.FullName,
		UserType: account.UserType,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := extractToken(r)
	if err := s.sessions.Delete(r.Context(), token); err != nil {
		slog.Error("failed to delete session", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to log out")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "logged out",
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	account, err := s.repo.GetAccountByID(r.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "account not found")
			return
		}
		slog.Error("failed to get account", "error", err, "user", sess.UserID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get account")
		return
	}

	respondJSON(w, http.StatusOK, account)
}
