package media

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kunospw/b-log/internal/apperror"
)

// Handler handles HTTP requests for media uploads. Handlers are thin: bind
// request, call service, render response. No business logic lives here.
type Handler struct {
	service MediaService
}

// NewHandler creates a new media handler backed by the given service.
func NewHandler(service MediaService) *Handler {
	return &Handler{service: service}
}

// Upload stores a cover image from a multipart form and returns its public
// URL (POST /api/v1/media/upload). Admin only. The file travels in the
// "file" form field.
func (h *Handler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperror.NewBadRequest("missing file field")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return apperror.NewBadRequest("unreadable file upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return apperror.NewBadRequest("unreadable file upload")
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	resp, err := h.service.Upload(c.Request().Context(), UploadInput{
		Filename: fileHeader.Filename,
		MimeType: mimeType,
		Size:     int64(len(data)),
		Data:     data,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, resp)
}
