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
)

// JobPostHandler serves the posting CRUD plus the derived read views
// (search, expiring, recent, salary range).
type JobPostHandler struct {
    Repo *repository.JobPostRepo
}

func NewJobPostHandler(repo *repository.JobPostRepo) *JobPostHandler {
    return &JobPostHandler{Repo: repo}
}

func validateJobPost(p *model.JobPost) string {
    p.Title = strings.TrimSpace(p.Title)
    p.Company = strings.TrimSpace(p.Company)
    switch {
    case p.Title == "":
        return "title is required"
    case strings.TrimSpace(p.Description) == "":
        return "description is required"
    case p.Company == "":
        return "company is required"
    case p.Salary < 0:
        return "salary must not be negative"
    case p.Deadline.IsZero():
        return "deadline is required"
    }
    if p.Department == "" {
        p.Department = "General"
    }
    return ""
}

// Create handles POST /v1/job-posts.
func (h *JobPostHandler) Create(c echo.Context) error {
    p := model.JobPost{IsActive: true}
    if err := c.Bind(&p); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg := validateJobPost(&p); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Repo.Create(ctx, &p); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create job post failed"})
    }
    return c.JSON(http.StatusCreated, p)
}

// List handles GET /v1/job-posts with optional isActive, company,
// location and jobType query filters.
func (h *JobPostHandler) List(c echo.Context) error {
    f := repository.JobPostFilters{
        Company:  strings.TrimSpace(c.QueryParam("company")),
        Location: strings.TrimSpace(c.QueryParam("location")),
        JobType:  strings.TrimSpace(c.QueryParam("jobType")),
    }
    if raw := c.QueryParam("isActive"); raw != "" {
        b, err := strconv.ParseBool(raw)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "isActive must be true or false"})
        }
        f.IsActive = &b
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Repo.FindAll(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/job-posts/:id.
func (h *JobPostHandler) Get(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    p, err := h.Repo.GetByID(ctx, c.Param("id"))
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job post not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, p)
}

// Update handles PUT /v1/job-posts/:id. Binding over the stored row
// keeps absent fields at their current values, giving partial-update
// semantics without a pointer-typed patch struct.
func (h *JobPostHandler) Update(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    p, err := h.Repo.GetByID(ctx, c.Param("id"))
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job post not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    id := p.ID
    if err := c.Bind(&p); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    p.ID = id // the path parameter wins over anything in the body
    if msg := validateJobPost(&p); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    if err := h.Repo.Update(ctx, &p); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job post not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, p)
}

// ToggleStatus handles PATCH /v1/job-posts/:id/toggle-status.
func (h *JobPostHandler) ToggleStatus(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    p, err := h.Repo.ToggleStatus(ctx, c.Param("id"))
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job post not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
    }
    return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/job-posts/:id.
func (h *JobPostHandler) Delete(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Repo.Delete(ctx, c.Param("id")); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "job post not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "job post deleted"})
}

// Search handles GET /v1/job-posts/search?keyword=...
func (h *JobPostHandler) Search(c echo.Context) error {
    keyword := strings.TrimSpace(c.QueryParam("keyword"))
    if keyword == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "keyword is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Repo.Search(ctx, keyword)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Expiring handles GET /v1/job-posts/expiring: active posts whose
// deadline falls within the next seven days.
func (h *JobPostHandler) Expiring(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Repo.Expiring(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Recent handles GET /v1/job-posts/recent: posts created in the last
// thirty days, newest first.
func (h *JobPostHandler) Recent(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Repo.Recent(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, items)
}

// BySalaryRange handles GET /v1/job-posts/salary-range?min=&max=.
func (h *JobPostHandler) BySalaryRange(c echo.Context) error {
    min, err := strconv.ParseFloat(c.QueryParam("min"), 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "min must be a number"})
    }
    max, err := strconv.ParseFloat(c.QueryParam("max"), 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "max must be a number"})
    }
    if min > max {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "min must not exceed max"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Repo.BySalaryRange(ctx, min, max)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, items)
}
