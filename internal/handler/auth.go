package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/smartrecruit/recruitment-backend/internal/service"
)

// AuthHandler serves login and the self-service password flows.
type AuthHandler struct {
    Accounts *service.Accounts
}

func NewAuthHandler(accounts *service.Accounts) *AuthHandler {
    return &AuthHandler{Accounts: accounts}
}

type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

// Login handles POST /v1/auth/login. A deactivated account is not an
// authentication failure: it returns 200 with a structured notice that
// includes the super-admin contact address, so the frontend can show
// who to reach out to.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    res, err := h.Accounts.Login(ctx, req.Email, req.Password)
    if err != nil {
        switch {
        case errors.Is(err, service.ErrInvalidCredentials):
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        case errors.Is(err, service.ErrTemporaryPasswordExpired):
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
    }
    if res.Deactivated != nil {
        return c.JSON(http.StatusOK, echo.Map{
            "error":           true,
            "message":         res.Deactivated.Message,
            "superAdminEmail": res.Deactivated.SuperAdminEmail,
        })
    }
    return c.JSON(http.StatusOK, res.Success)
}

type emailReq struct {
    Email string `json:"email"`
}

// ForgotPassword handles POST /v1/auth/forgot-password: it mints a
// 24h temporary password and emails it. The response never reveals
// whether the address has an account.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
    var req emailReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
    defer cancel()

    res := h.Accounts.ForgotPassword(ctx, req.Email)
    if !res.Success {
        return c.JSON(http.StatusInternalServerError, res)
    }
    return c.JSON(http.StatusOK, res)
}

type changeTempReq struct {
    Email             string `json:"email"`
    TemporaryPassword string `json:"temporaryPassword"`
    NewPassword       string `json:"newPassword"`
}

// ChangeTemporaryPassword handles POST /v1/auth/change-temporary-password.
func (h *AuthHandler) ChangeTemporaryPassword(c echo.Context) error {
    var req changeTempReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.TemporaryPassword == "" || req.NewPassword == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, temporaryPassword and newPassword are required"})
    }
    if len(req.NewPassword) < 8 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "new password must be at least 8 characters"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    res := h.Accounts.ChangeTemporaryPassword(ctx, req.Email, req.TemporaryPassword, req.NewPassword)
    if !res.Success {
        return c.JSON(http.StatusBadRequest, res)
    }
    return c.JSON(http.StatusOK, res)
}

// RequestReset handles POST /v1/auth/reset-password: the token-based
// flow. The response is constant-shaped whether or not the account
// exists.
func (h *AuthHandler) RequestReset(c echo.Context) error {
    var req emailReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Accounts.RequestReset(ctx, req.Email); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset request failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message": "If the email exists, a password reset token will be issued.",
    })
}

type confirmResetReq struct {
    Token       string `json:"token"`
    NewPassword string `json:"newPassword"`
}

// ConfirmReset handles POST /v1/auth/reset-password/confirm: redeems
// a reset token for a new password.
func (h *AuthHandler) ConfirmReset(c echo.Context) error {
    var req confirmResetReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.Token == "" || req.NewPassword == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "token and newPassword are required"})
    }
    if len(req.NewPassword) < 8 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "new password must be at least 8 characters"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Accounts.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
        if errors.Is(err, service.ErrInvalidResetToken) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired reset token"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "password reset failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successfully."})
}
