package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/smartrecruit/recruitment-backend/internal/model"
    "github.com/smartrecruit/recruitment-backend/internal/repository"
    "github.com/smartrecruit/recruitment-backend/internal/service"
)

// UserHandler serves the profile endpoints plus the super-admin
// account-management surface.
type UserHandler struct {
    Accounts *service.Accounts
}

func NewUserHandler(accounts *service.Accounts) *UserHandler {
    return &UserHandler{Accounts: accounts}
}

// authedUserID extracts the authenticated account ID placed in the
// context by JWTAuth. JWT number claims decode as float64.
func authedUserID(c echo.Context) (uint64, bool) {
    switch v := c.Get("user_id").(type) {
    case float64:
        return uint64(v), true
    case string:
        if id, err := strconv.ParseUint(v, 10, 64); err == nil {
            return id, true
        }
    }
    return 0, false
}

// Profile handles GET /v1/users/profile.
func (h *UserHandler) Profile(c echo.Context) error {
    id, ok := authedUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token subject"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Accounts.Profile(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, u)
}

type updatePasswordReq struct {
    CurrentPassword string `json:"currentPassword"`
    NewPassword     string `json:"newPassword"`
}

// UpdatePassword handles PATCH /v1/users/update-password for the
// authenticated account.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
    id, ok := authedUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token subject"})
    }
    var req updatePasswordReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.CurrentPassword == "" || req.NewPassword == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "currentPassword and newPassword are required"})
    }
    if len(req.NewPassword) < 8 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "new password must be at least 8 characters"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Accounts.UpdatePassword(ctx, id, req.CurrentPassword, req.NewPassword); err != nil {
        switch {
        case errors.Is(err, service.ErrInvalidCredentials):
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "current password is incorrect"})
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "password update failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Password updated successfully."})
}

type updateEmailReq struct {
    NewEmail string `json:"newEmail"`
}

// UpdateEmail handles PATCH /v1/users/update-email. The previous
// address is retained on the account record.
func (h *UserHandler) UpdateEmail(c echo.Context) error {
    id, ok := authedUserID(c)
    if !ok {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token subject"})
    }
    var req updateEmailReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.NewEmail = strings.ToLower(strings.TrimSpace(req.NewEmail))
    if !emailRe.MatchString(req.NewEmail) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email format"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Accounts.UpdateEmail(ctx, id, req.NewEmail)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrEmailExists):
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "email update failed"})
    }
    return c.JSON(http.StatusOK, u)
}

// ListAdmins handles GET /v1/users/admins (super_admin only).
func (h *UserHandler) ListAdmins(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    admins, err := h.Accounts.ListAdmins(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, admins)
}

type addAdminReq struct {
    Email string `json:"email"`
    Role  string `json:"role"`
}

// AddAdmin handles POST /v1/users/add-admin (super_admin only). The
// new account receives a temporary password by email; the plaintext is
// never returned in the response.
func (h *UserHandler) AddAdmin(c echo.Context) error {
    var req addAdminReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if !emailRe.MatchString(req.Email) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email format"})
    }

    // Welcome mail delivery rides inside this window.
    ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
    defer cancel()

    u, err := h.Accounts.AddAdmin(ctx, req.Email, req.Role)
    if err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create admin failed"})
    }
    return c.JSON(http.StatusCreated, u)
}

type toggleStatusReq struct {
    Status string `json:"status"`
}

// ToggleStatus handles PATCH /v1/users/toggle-admin-status/:id
// (super_admin only). Status must be Active or Inactive.
func (h *UserHandler) ToggleStatus(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req toggleStatusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Accounts.ToggleStatus(ctx, id, req.Status)
    if err != nil {
        switch {
        case errors.Is(err, service.ErrInvalidStatus):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be Active or Inactive"})
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status update failed"})
    }
    return c.JSON(http.StatusOK, u)
}

type updateRoleReq struct {
    Role string `json:"role"`
}

// UpdateRole handles PATCH /v1/users/update-role/:id (super_admin only).
func (h *UserHandler) UpdateRole(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req updateRoleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.Role != model.RoleAdmin && req.Role != model.RoleSuperAdmin {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be admin or super_admin"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Accounts.UpdateRole(ctx, id, req.Role)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "role update failed"})
    }
    return c.JSON(http.StatusOK, u)
}

// RemoveAdmin handles DELETE /v1/users/remove-admin/:id (super_admin
// only). Self-deletion is rejected so a super admin cannot lock the
// system out of management.
func (h *UserHandler) RemoveAdmin(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if self, ok := authedUserID(c); ok && self == id {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot remove your own account"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Accounts.RemoveAdmin(ctx, id); err != nil {
        switch {
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove admin failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "admin removed"})
}
