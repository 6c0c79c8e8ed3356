package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/auth"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/metrics"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/store"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	responder
	Store   *store.Store
	Codec   *auth.Codec
	Metrics *metrics.Metrics
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

var registerMessages = messages{
	"username.required": "Username, email and password are required",
	"email.required":    "Username, email and password are required",
	"password.required": "Username, email and password are required",
	"email.email":       "Invalid email format",
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var loginMessages = messages{
	"username": "Username and password are required",
	"password": "Username and password are required",
}

type authResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    *model.Account `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := check(&req, registerMessages); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		h.fail(w, r, passwordError("Password", err))
		return
	}

	exists, err := h.Store.AccountExists(r.Context(), req.Username, req.Email)
	if err != nil {
		h.fail(w, r, errInternal("Error registering user", err))
		return
	}
	if exists {
		h.fail(w, r, errValidation("Username or email already exists"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(w, r, errInternal("Error registering user", err))
		return
	}

	account, err := h.Store.CreateAccount(r.Context(), req.Username, req.Email, hash, model.RoleUser)
	if errors.Is(err, store.ErrDuplicate) {
		h.fail(w, r, errValidation("Username or email already exists"))
		return
	}
	if err != nil {
		h.fail(w, r, errInternal("Error registering user", err))
		return
	}

	token, err := h.issue(account)
	if err != nil {
		h.fail(w, r, errInternal("Error registering user", err))
		return
	}

	slog.Info("user registered", "user", account.Username, "id", account.ID)
	h.Metrics.Record("user_registered")
	jsonResponse(w, http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    account,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := check(&req, loginMessages); err != nil {
		h.fail(w, r, err)
		return
	}

	account, err := h.Store.GetAccountByUsername(r.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		h.fail(w, r, errBadCredentials("Invalid credentials"))
		return
	}
	if err != nil {
		h.fail(w, r, errInternal("Error logging in", err))
		return
	}

	if !auth.CheckPassword(account.PasswordHash, req.Password) {
		slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		h.fail(w, r, errBadCredentials("Invalid credentials"))
		return
	}

	token, err := h.issue(account)
	if err != nil {
		h.fail(w, r, errInternal("Error logging in", err))
		return
	}

	slog.Info("user logged in", "user", account.Username, "role", account.Role)
	jsonResponse(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    account,
	})
}

func (h *AuthHandler) issue(a *model.Account) (string, error) {
	return h.Codec.Issue(auth.Identity{ID: a.ID, Username: a.Username, Role: a.Role})
}
