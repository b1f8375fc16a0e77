// Package handler exposes the HTTP layer: request binding and
// validation, status-code mapping, and response shaping. Business rules
// live in internal/service; handlers stay thin.
package handler

import (
    "context"
    "errors"
    "net/http"
    "regexp"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/smartrecruit/recruitment-backend/internal/mailer"
    "github.com/smartrecruit/recruitment-backend/internal/model"
    "github.com/smartrecruit/recruitment-backend/internal/repository"
    "github.com/smartrecruit/recruitment-backend/internal/service"
)

var (
    phoneRe = regexp.MustCompile(`^\+251\d{9}$`)
    emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// CandidateHandler bundles the dependencies of the candidate endpoints.
type CandidateHandler struct {
    Repo *repository.CandidateRepo
    Flow *service.Workflow
}

func NewCandidateHandler(repo *repository.CandidateRepo, flow *service.Workflow) *CandidateHandler {
    return &CandidateHandler{Repo: repo, Flow: flow}
}

// validateCandidate checks the submission-time invariants shared by
// create and full updates. It returns a client-facing message, empty
// when the candidate is valid.
func validateCandidate(cand *model.Candidate) string {
    cand.FullName = strings.TrimSpace(cand.FullName)
    cand.Email = strings.ToLower(strings.TrimSpace(cand.Email))
    cand.JobTitle = strings.TrimSpace(cand.JobTitle)
    cand.PhoneNumber = strings.TrimSpace(cand.PhoneNumber)

    switch {
    case cand.FullName == "":
        return "fullname is required"
    case cand.Email == "":
        return "email is required"
    case !emailRe.MatchString(cand.Email):
        return "invalid email format"
    case cand.JobTitle == "":
        return "jobTitle is required"
    case cand.PhoneNumber == "":
        return "phoneNumber is required"
    case !phoneRe.MatchString(cand.PhoneNumber):
        return "phone number must match +251XXXXXXXXX"
    case cand.GPA < 0.5 || cand.GPA > 4.0:
        return "gpa must be between 0.5 and 4.0"
    }
    return ""
}

// Create handles POST /v1/candidates: a public application submission.
func (h *CandidateHandler) Create(c echo.Context) error {
    var cand model.Candidate
    if err := c.Bind(&cand); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg := validateCandidate(&cand); msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Flow.Submit(ctx, &cand); err != nil {
        switch {
        case errors.Is(err, service.ErrNoResumeOrLink):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "either a resume file or a link is required"})
        case errors.Is(err, service.ErrInvalidStatus):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
        case errors.Is(err, repository.ErrDuplicateApplication):
            return c.JSON(http.StatusConflict, echo.Map{"error": "you have already applied for this job"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create application failed"})
    }
    return c.JSON(http.StatusCreated, cand)
}

// List handles GET /v1/candidates with optional status, department and
// location query filters.
func (h *CandidateHandler) List(c echo.Context) error {
    f := repository.CandidateFilters{
        Status:     strings.TrimSpace(c.QueryParam("status")),
        Department: strings.TrimSpace(c.QueryParam("department")),
        Location:   strings.TrimSpace(c.QueryParam("location")),
    }
    if f.Status != "" && !model.ValidStatus(model.CandidateStatus(f.Status)) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Repo.FindAll(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/candidates/:id.
func (h *CandidateHandler) Get(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cand, err := h.Repo.GetByID(ctx, c.Param("id"))
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "candidate not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, cand)
}

// statusResultBody shapes a workflow result: the saved candidate plus
// the notification outcome when one was attempted.
func statusResultBody(res service.StatusResult) echo.Map {
    body := echo.Map{"candidate": res.Candidate}
    if res.EmailStatus != nil {
        body["emailStatus"] = res.EmailStatus
    }
    return body
}

// Update handles PATCH /v1/candidates/:id. A status change inside the
// patch triggers a notification; identical status values do not.
func (h *CandidateHandler) Update(c echo.Context) error {
    var patch service.CandidateUpdate
    if err := c.Bind(&patch); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if patch.PhoneNumber != nil && !phoneRe.MatchString(*patch.PhoneNumber) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone number must match +251XXXXXXXXX"})
    }
    if patch.GPA != nil && (*patch.GPA < 0.5 || *patch.GPA > 4.0) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "gpa must be between 0.5 and 4.0"})
    }
    if patch.Email != nil && !emailRe.MatchString(*patch.Email) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email format"})
    }

    // Mail sending can outlive a typical DB timeout; give the whole
    // operation a wider window.
    ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
    defer cancel()

    res, err := h.Flow.Update(ctx, c.Param("id"), patch)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "candidate not found"})
        case errors.Is(err, service.ErrInvalidStatus):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
        case errors.Is(err, repository.ErrDuplicateApplication):
            return c.JSON(http.StatusConflict, echo.Map{"error": "candidate has already applied for this position"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, statusResultBody(res))
}

type statusUpdateReq struct {
    Status       model.CandidateStatus `json:"status"`
    EmailDetails *service.EmailDetails `json:"emailDetails"`
}

// SetStatus handles PATCH /v1/candidates/:id/status. Unlike Update,
// this route always sends a notification, even when the status value
// is unchanged.
func (h *CandidateHandler) SetStatus(c echo.Context) error {
    var req statusUpdateReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.Status == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
    defer cancel()

    res, err := h.Flow.SetStatus(ctx, c.Param("id"), req.Status, req.EmailDetails)
    if err != nil {
        switch {
        case errors.Is(err, service.ErrInvalidStatus):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
        case errors.Is(err, repository.ErrNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "candidate not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status update failed"})
    }
    return c.JSON(http.StatusOK, statusResultBody(res))
}

// Delete handles DELETE /v1/candidates/:id.
func (h *CandidateHandler) Delete(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Repo.Delete(ctx, c.Param("id")); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "candidate not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "candidate deleted"})
}

// ByJob handles GET /v1/candidates/job/:jobTitle.
func (h *CandidateHandler) ByJob(c echo.Context) error {
    jobTitle := c.Param("jobTitle")
    if strings.TrimSpace(jobTitle) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "jobTitle is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Repo.FindByJob(ctx, jobTitle)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, items)
}

// CheckApplication handles GET /v1/candidates/check-application. The
// frontend calls it before submission to warn about duplicates early;
// the unique key on (email, job_title) remains the final authority.
func (h *CandidateHandler) CheckApplication(c echo.Context) error {
    email := strings.ToLower(strings.TrimSpace(c.QueryParam("email")))
    jobTitle := strings.TrimSpace(c.QueryParam("jobTitle"))
    if email == "" || jobTitle == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and jobTitle are required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    exists, err := h.Repo.Exists(ctx, email, jobTitle)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"hasApplied": exists})
}

// Stats handles GET /v1/candidates/stats/overview.
func (h *CandidateHandler) Stats(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    stats, err := h.Repo.Stats(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, stats)
}

// EmailPreview handles GET /v1/candidates/:id/email-preview/:status.
// It renders the notification body that a status change would send,
// without sending anything.
func (h *CandidateHandler) EmailPreview(c echo.Context) error {
    status := model.CandidateStatus(c.Param("status"))
    if !model.ValidStatus(status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cand, err := h.Repo.GetByID(ctx, c.Param("id"))
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "candidate not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "recipient": cand.Email,
        "subject":   mailer.StatusUpdateSubject(status),
        "body":      mailer.StatusUpdateBody(cand.FullName, cand.JobTitle, status),
    })
}
