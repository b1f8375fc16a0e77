// Package router wires handlers, middleware and route groups onto the
// Echo instance. Three tiers exist: public routes for applicants,
// JWT-protected routes for admins, and a super_admin-only group for
// account management.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/smartrecruit/recruitment-backend/internal/config"
    "github.com/smartrecruit/recruitment-backend/internal/handler"
    "github.com/smartrecruit/recruitment-backend/internal/middleware"
    "github.com/smartrecruit/recruitment-backend/internal/model"
)

// Handlers collects every handler the router needs.
type Handlers struct {
    Auth       *handler.AuthHandler
    Candidates *handler.CandidateHandler
    JobPosts   *handler.JobPostHandler
    Users      *handler.UserHandler
    Uploads    *handler.UploadHandler
}

// Register mounts all routes. rdb may be nil, in which case the rate
// limiter and response cache degrade to pass-through.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
    e.GET("/healthz", handler.Health)

    limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    api := e.Group("/v1", limiter)

    // ----- public: auth and password flows -----
    auth := api.Group("/auth")
    auth.POST("/login", h.Auth.Login)
    auth.POST("/forgot-password", h.Auth.ForgotPassword)
    auth.POST("/change-temporary-password", h.Auth.ChangeTemporaryPassword)
    auth.POST("/reset-password", h.Auth.RequestReset)
    auth.POST("/reset-password/confirm", h.Auth.ConfirmReset)

    // ----- public: job browsing (cached) and application submission -----
    // Static segments must be registered before /:id so Echo does not
    // swallow them as path parameters.
    jobs := api.Group("/job-posts")
    jobs.GET("", h.JobPosts.List, cache)
    jobs.GET("/search", h.JobPosts.Search, cache)
    jobs.GET("/expiring", h.JobPosts.Expiring, cache)
    jobs.GET("/recent", h.JobPosts.Recent, cache)
    jobs.GET("/salary-range", h.JobPosts.BySalaryRange, cache)
    jobs.GET("/:id", h.JobPosts.Get, cache)

    api.POST("/candidates", h.Candidates.Create)
    api.GET("/candidates/check-application", h.Candidates.CheckApplication)
    api.POST("/candidates/upload", h.Uploads.Upload)
    api.GET("/candidates/download/:filename", h.Uploads.Download)

    // ----- admin: candidate management -----
    jwt := middleware.JWTAuth(cfg.JWTSecret)
    anyAdmin := middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin)

    cand := api.Group("/candidates", jwt, anyAdmin)
    cand.GET("", h.Candidates.List)
    cand.GET("/stats/overview", h.Candidates.Stats)
    cand.GET("/export/csv", h.Candidates.ExportCSV)
    cand.GET("/job/:jobTitle", h.Candidates.ByJob)
    cand.GET("/:id", h.Candidates.Get)
    cand.GET("/:id/email-preview/:status", h.Candidates.EmailPreview)
    cand.PATCH("/:id", h.Candidates.Update)
    cand.PATCH("/:id/status", h.Candidates.SetStatus)
    cand.DELETE("/:id", h.Candidates.Delete)

    // ----- admin: job post management -----
    jobAdmin := api.Group("/job-posts", jwt, anyAdmin)
    jobAdmin.GET("/export/csv", h.JobPosts.ExportCSV)
    jobAdmin.POST("", h.JobPosts.Create)
    jobAdmin.PUT("/:id", h.JobPosts.Update)
    jobAdmin.PATCH("/:id/toggle-status", h.JobPosts.ToggleStatus)
    jobAdmin.DELETE("/:id", h.JobPosts.Delete)

    // ----- admin: own account -----
    users := api.Group("/users", jwt, anyAdmin)
    users.GET("/profile", h.Users.Profile)
    users.PATCH("/update-password", h.Users.UpdatePassword)
    users.PATCH("/update-email", h.Users.UpdateEmail)

    // ----- super admin: account management -----
    su := api.Group("/users", jwt, middleware.RequireRole(model.RoleSuperAdmin))
    su.GET("/admins", h.Users.ListAdmins)
    su.POST("/add-admin", h.Users.AddAdmin)
    su.PATCH("/toggle-admin-status/:id", h.Users.ToggleStatus)
    su.PATCH("/update-role/:id", h.Users.UpdateRole)
    su.DELETE("/remove-admin/:id", h.Users.RemoveAdmin)
}
