package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/auth"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/model"
	"github.com/SilverCoyote012/IngieneriaSoftwareProyecto/internal/store"
)

// UsersHandler handles account management endpoints.
type UsersHandler struct {
	responder
	Store *store.Store
}

type updateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

var updateUserMessages = messages{
	"username.required": "Username and email are required",
	"email.required":    "Username and email are required",
	"email.email":       "Invalid email format",
	"role":              "Invalid role",
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

var changePasswordMessages = messages{
	"currentPassword.required": "Both passwords are required",
	"newPassword.required":     "Both passwords are required",
}

// passwordError turns a model.ValidatePassword failure into a client message
// naming the field.
func passwordError(field string, err error) *Error {
	if errors.Is(err, model.ErrPasswordTooLong) {
		return errValidation(fmt.Sprintf("%s must be at most %d bytes", field, model.MaxPasswordLength))
	}
	return errValidation(fmt.Sprintf("%s must be at least %d characters", field, model.MinPasswordLength))
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListAccounts(r.Context())
	if err != nil {
		h.fail(w, r, errInternal("Error fetching users", err))
		return
	}
	if users == nil {
		users = []model.Account{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"users": users})
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.Store.GetAccount(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, errNotFound("User not found"))
		return
	}
	if err != nil {
		h.fail(w, r, errInternal("Error fetching user", err))
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"user": user})
}

// Update handles PUT /api/users/{id}. An omitted role keeps the stored one.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := check(&req, updateUserMessages); err != nil {
		h.fail(w, r, err)
		return
	}

	var role *model.Role
	if req.Role != "" {
		parsed, err := model.ParseRole(req.Role)
		if err != nil {
			h.fail(w, r, errValidation("Invalid role"))
			return
		}
		role = &parsed
	}

	user, err := h.Store.UpdateAccount(r.Context(), id, req.Username, req.Email, role)
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.fail(w, r, errNotFound("User not found"))
		return
	case errors.Is(err, store.ErrDuplicate):
		h.fail(w, r, errValidation("Username or email already exists"))
		return
	case err != nil:
		h.fail(w, r, errInternal("Error updating user", err))
		return
	}

	caller, _ := IdentityFrom(r.Context())
	slog.Info("user updated", "user", caller.Username, "target_user", user.Username, "role", user.Role)
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "User updated successfully",
		"user":    user,
	})
}

// Delete handles DELETE /api/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	caller, _ := IdentityFrom(r.Context())
	if caller.ID == id {
		h.fail(w, r, errValidation("Cannot delete your own account"))
		return
	}

	err = h.Store.DeleteAccount(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, errNotFound("User not found"))
		return
	}
	if err != nil {
		h.fail(w, r, errInternal("Error deleting user", err))
		return
	}

	slog.Info("user deleted", "user", caller.Username, "deleted_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// ChangePassword handles POST /api/users/change-password.
func (h *UsersHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, _ := IdentityFrom(r.Context())

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := check(&req, changePasswordMessages); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := model.ValidatePassword(req.NewPassword); err != nil {
		h.fail(w, r, passwordError("New password", err))
		return
	}

	account, err := h.Store.GetAccount(r.Context(), caller.ID)
	if errors.Is(err, store.ErrNotFound) {
		h.fail(w, r, errNotFound("User not found"))
		return
	}
	if err != nil {
		h.fail(w, r, errInternal("Error changing password", err))
		return
	}

	if !auth.CheckPassword(account.PasswordHash, req.CurrentPassword) {
		h.fail(w, r, errBadCredentials("Current password is incorrect"))
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.fail(w, r, errInternal("Error changing password", err))
		return
	}

	if err := h.Store.UpdateAccountPassword(r.Context(), caller.ID, hash); err != nil {
		h.fail(w, r, errInternal("Error changing password", err))
		return
	}

	slog.Info("user changed own password", "user", caller.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}
