package handler

import (
    "bytes"
    "context"
    "encoding/csv"
    "fmt"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/smartrecruit/recruitment-backend/internal/model"
    "github.com/smartrecruit/recruitment-backend/internal/repository"
)

// jobPostCSV renders postings as RFC4180 CSV with a header row.
func jobPostCSV(items []model.JobPost) ([]byte, error) {
    var buf bytes.Buffer
    w := csv.NewWriter(&buf)
    header := []string{
        "ID", "Title", "Company", "Location", "Job Type",
        "Salary", "Description", "Is Active", "Deadline", "Created At",
    }
    if err := w.Write(header); err != nil {
        return nil, err
    }
    for _, p := range items {
        row := []string{
            p.ID,
            p.Title,
            p.Company,
            p.Location,
            p.JobType,
            strconv.FormatFloat(p.Salary, 'f', -1, 64),
            p.Description,
            strconv.FormatBool(p.IsActive),
            p.Deadline.Format(time.RFC3339),
            p.CreatedAt.Format(time.RFC3339),
        }
        if err := w.Write(row); err != nil {
            return nil, err
        }
    }
    w.Flush()
    if err := w.Error(); err != nil {
        return nil, err
    }
    return buf.Bytes(), nil
}

// ExportCSV handles GET /v1/job-posts/export/csv. Every posting is
// exported, active or not, so the file doubles as an archive dump. An
// empty table is a 404, not an empty file.
func (h *JobPostHandler) ExportCSV(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    items, err := h.Repo.FindAll(ctx, repository.JobPostFilters{})
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if len(items) == 0 {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no job posts to export"})
    }

    data, err := jobPostCSV(items)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export failed"})
    }

    filename := fmt.Sprintf("job-posts-%s.csv", time.Now().Format("2006-01-02"))
    c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
    return c.Blob(http.StatusOK, "text/csv", data)
}
