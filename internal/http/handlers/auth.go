package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hongminglow/jbudget-be/internal/auth"
	"github.com/hongminglow/jbudget-be/internal/http/respond"
	"github.com/hongminglow/jbudget-be/internal/models"
	"github.com/hongminglow/jbudget-be/internal/models/dto"
	"github.com/hongminglow/jbudget-be/internal/storage"
)

const (
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes and newer versions refuse it.
	maxPasswordLength = 72
)

// Middleware wraps a handler, typically to require authentication.
type Middleware func(http.Handler) http.Handler

// AuthHandler owns account registration, login, token refresh and profile endpoints.
type AuthHandler struct {
	store  storage.UserStore
	tokens *auth.TokenManager
	log    logrus.FieldLogger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, tokens *auth.TokenManager, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, log: log}
}

// Register attaches auth routes to the mux. protect guards the routes that
// need a signed-in user.
func (h *AuthHandler) Register(mux *http.ServeMux, protect Middleware) {
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/refresh-token", h.handleRefresh)
	mux.Handle("GET /api/auth/me", protect(http.HandlerFunc(h.handleMe)))
	mux.Handle("PUT /api/auth/profile", protect(http.HandlerFunc(h.handleUpdateProfile)))
	mux.Handle("PUT /api/auth/password", protect(http.HandlerFunc(h.handleUpdatePassword)))
	mux.Handle("DELETE /api/auth/account", protect(http.HandlerFunc(h.handleDeleteAccount)))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)

	var errs fieldErrors
	if name == "" {
		errs.add("name", "Name is required")
	}
	if !validEmail(email) {
		errs.add("email", "Please include a valid email")
	}
	validatePassword(&errs, "password", req.Password, "Password")
	if len(errs) > 0 {
		respond.Invalid(w, errs)
		return
	}

	if _, err := h.store.FindUserByEmail(r.Context(), email); err == nil {
		respond.Error(w, http.StatusBadRequest, "User already exists with this email")
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		serverError(w, r, h.log, "register: find user", err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		serverError(w, r, h.log, "register: hash password", err)
		return
	}
	created, err := h.store.CreateUser(r.Context(), models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusBadRequest, "User already exists with this email")
			return
		}
		serverError(w, r, h.log, "register: create user", err)
		return
	}
	h.respondWithTokens(w, r, http.StatusCreated, created)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email := normalizeEmail(req.Email)

	var errs fieldErrors
	if !validEmail(email) {
		errs.add("email", "Please include a valid email")
	}
	if req.Password == "" {
		errs.add("password", "Password is required")
	}
	if len(errs) > 0 {
		respond.Invalid(w, errs)
		return
	}

	user, err := h.store.FindUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		serverError(w, r, h.log, "login: find user", err)
		return
	}
	if !auth.ComparePassword(user.PasswordHash, req.Password) {
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	h.respondWithTokens(w, r, http.StatusOK, user)
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		respond.Error(w, http.StatusBadRequest, "Refresh token is required")
		return
	}
	userID, err := h.tokens.Parse(req.RefreshToken, auth.RefreshToken)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "Refresh token expired or invalid. Please login again.")
		return
	}
	user, err := h.store.FindUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "User not found")
			return
		}
		serverError(w, r, h.log, "refresh: find user", err)
		return
	}
	pair, err := h.tokens.Generate(user)
	if err != nil {
		serverError(w, r, h.log, "refresh: generate tokens", err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.TokenResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, currentUser(r))
}

func (h *AuthHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user := currentUser(r)

	var errs fieldErrors
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name == "" {
			errs.add("name", "Name cannot be empty")
		} else {
			user.Name = name
		}
	}
	emailChanged := false
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if !validEmail(email) {
			errs.add("email", "Please include a valid email")
		} else if email != user.Email {
			user.Email = email
			emailChanged = true
		}
	}
	if len(errs) > 0 {
		respond.Invalid(w, errs)
		return
	}

	if emailChanged {
		if _, err := h.store.FindUserByEmail(r.Context(), user.Email); err == nil {
			respond.Error(w, http.StatusBadRequest, "Email already in use")
			return
		} else if !errors.Is(err, storage.ErrNotFound) {
			serverError(w, r, h.log, "update profile: find user", err)
			return
		}
	}

	updated, err := h.store.UpdateUser(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.Error(w, http.StatusBadRequest, "Email already in use")
		case errors.Is(err, storage.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "User not found")
		default:
			serverError(w, r, h.log, "update profile", err)
		}
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *AuthHandler) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdatePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var errs fieldErrors
	if req.CurrentPassword == "" {
		errs.add("currentPassword", "Current password is required")
	}
	validatePassword(&errs, "newPassword", req.NewPassword, "New password")
	if len(errs) > 0 {
		respond.Invalid(w, errs)
		return
	}

	user := currentUser(r)
	if !auth.ComparePassword(user.PasswordHash, req.CurrentPassword) {
		respond.Error(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		serverError(w, r, h.log, "update password: hash", err)
		return
	}
	user.PasswordHash = hash
	if _, err := h.store.UpdateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		serverError(w, r, h.log, "update password", err)
		return
	}
	respond.Message(w, http.StatusOK, "Password updated successfully")
}

func (h *AuthHandler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if err := h.store.DeleteUser(r.Context(), user.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		serverError(w, r, h.log, "delete account", err)
		return
	}
	h.log.WithField("user_id", user.ID).Info("account deleted")
	respond.Message(w, http.StatusOK, "Account deleted successfully")
}

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, r *http.Request, status int, user models.User) {
	pair, err := h.tokens.Generate(user)
	if err != nil {
		serverError(w, r, h.log, "generate tokens", err)
		return
	}
	respond.JSON(w, status, dto.AuthResponse{User: user, Token: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func validatePassword(errs *fieldErrors, path, password, label string) {
	switch {
	case len(password) < minPasswordLength:
		errs.add(path, label+" must be at least 6 characters")
	case len(password) > maxPasswordLength:
		errs.add(path, label+" must be at most 72 characters")
	}
}
