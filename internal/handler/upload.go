package handler

import (
    "fmt"
    "io"
    "net/http"
    "os"
    "path/filepath"
    "strings"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
)

// maxResumeSize caps resume uploads at 5 MB.
const maxResumeSize = 5 << 20

// resumeTypes maps the accepted file extensions to their served MIME
// types. Only PDF and Word documents are allowed.
var resumeTypes = map[string]string{
    ".pdf":  "application/pdf",
    ".doc":  "application/msword",
    ".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// UploadHandler stores and serves resume files under Dir.
type UploadHandler struct {
    Dir string
}

func NewUploadHandler(dir string) *UploadHandler {
    return &UploadHandler{Dir: dir}
}

// Upload handles POST /v1/candidates/upload. The file arrives as the
// multipart field "resume"; it is stored under a random name so
// uploads can never collide or overwrite each other.
func (h *UploadHandler) Upload(c echo.Context) error {
    fh, err := c.FormFile("resume")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "resume file is required"})
    }
    if fh.Size == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "resume file is empty"})
    }
    if fh.Size > maxResumeSize {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "resume file exceeds 5MB limit"})
    }

    ext := strings.ToLower(filepath.Ext(fh.Filename))
    if _, ok := resumeTypes[ext]; !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "only PDF, DOC and DOCX files are accepted"})
    }

    src, err := fh.Open()
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
    }
    defer src.Close()

    if err := os.MkdirAll(h.Dir, 0o755); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
    }

    name := fmt.Sprintf("%s%s", uuid.NewString(), ext)
    dst, err := os.Create(filepath.Join(h.Dir, name))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
    }
    defer dst.Close()

    // LimitReader guards against a forged Content-Length.
    if _, err := io.Copy(dst, io.LimitReader(src, maxResumeSize+1)); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "filename": name,
        "path":     "uploads/" + name,
    })
}

// Download handles GET /v1/candidates/download/:filename. The stored name
// is a UUID plus extension; anything else (including path separators)
// is rejected before touching the filesystem.
func (h *UploadHandler) Download(c echo.Context) error {
    name := c.Param("filename")
    if name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "filename is required"})
    }
    if name != filepath.Base(name) || strings.Contains(name, "..") {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid filename"})
    }
    ext := strings.ToLower(filepath.Ext(name))
    mime, ok := resumeTypes[ext]
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid filename"})
    }

    path := filepath.Join(h.Dir, name)
    info, err := os.Stat(path)
    if err != nil {
        if os.IsNotExist(err) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "file not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read file failed"})
    }
    if info.Size() == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is empty"})
    }

    c.Response().Header().Set(echo.HeaderContentType, mime)
    c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
    return c.File(path)
}
