package handler

import (
    "bytes"
    "context"
    "encoding/csv"
    "fmt"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/smartrecruit/recruitment-backend/internal/repository"
)

// ExportCSV handles GET /v1/candidates/export/csv. The same filters
// as the list endpoint apply, so an admin can export exactly the view
// they are looking at. An empty result is a 404, not an empty file.
func (h *CandidateHandler) ExportCSV(c echo.Context) error {
    f := repository.CandidateFilters{
        Status:     c.QueryParam("status"),
        Department: c.QueryParam("department"),
        Location:   c.QueryParam("location"),
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    items, err := h.Repo.FindAll(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if len(items) == 0 {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no candidates to export"})
    }

    var buf bytes.Buffer
    w := csv.NewWriter(&buf)
    header := []string{
        "ID", "Full Name", "Email", "Phone Number", "Status",
        "Department", "Location", "Job Title", "Resume Path", "Link", "Applied Date",
    }
    if err := w.Write(header); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
    }
    for _, cand := range items {
        row := []string{
            cand.ID,
            cand.FullName,
            cand.Email,
            cand.PhoneNumber,
            string(cand.Status),
            cand.Department,
            cand.Location,
            cand.JobTitle,
            cand.ResumePath,
            cand.Link,
            cand.AppliedAt.Format(time.RFC3339),
        }
        if err := w.Write(row); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
        }
    }
    w.Flush()
    if err := w.Error(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
    }

    filename := fmt.Sprintf("candidates-%s.csv", time.Now().Format("2006-01-02"))
    c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
    return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}
