// handlers_convert.go - LaTeX conversion handlers
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/texforge/backend/internal/convert"
	"github.com/texforge/backend/internal/ingest"
	"github.com/texforge/backend/internal/models"
)

// ConvertHandlerImpl implements the ConvertHandler interface
type ConvertHandlerImpl struct {
	converter convert.Converter
	readLimit int
	timeout   time.Duration
	logger    *slog.Logger
}

// NewConvertHandler creates a new convert handler instance
func NewConvertHandler(converter convert.Converter, readLimit int, timeout time.Duration, logger *slog.Logger) ConvertHandler {
	return &ConvertHandlerImpl{
		converter: converter,
		readLimit: readLimit,
		timeout:   timeout,
		logger:    logger,
	}
}

// ConvertFailedMessage is reported when the converter fails without a message.
const ConvertFailedMessage = "Failed to convert resume to LaTeX"

// HandleConvert reads the uploaded documents and asks the model for LaTeX.
// Files that cannot be read are skipped.
func (h *ConvertHandlerImpl) HandleConvert(c echo.Context) error {
	if h.converter == nil {
		return NewServiceUnavailableError("LaTeX conversion is not configured")
	}
	if !isMultipart(c) {
		return NewBadRequestError("No files uploaded.", nil)
	}
	form, err := c.MultipartForm()
	if err != nil {
		return NewBadRequestError("No files uploaded.", err)
	}
	defer form.RemoveAll()

	headers := form.File[FilesField]
	if len(headers) == 0 {
		return NewBadRequestError("No files uploaded.", nil)
	}

	ctx := c.Request().Context()
	files, skipped := ingest.ReadAll(ctx, ingest.FromMultipart(headers), h.readLimit)
	for _, name := range skipped {
		h.logger.Warn("skipping unreadable file", "file", name)
	}
	if len(files) == 0 {
		return NewBadRequestError("No valid files found.", nil)
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	latex, err := h.converter.Convert(ctx, files)
	if err != nil {
		h.logger.Error("conversion failed",
			"backend", h.converter.Name(),
			"files", len(files),
			"error", err)
		message := err.Error()
		if message == "" {
			message = ConvertFailedMessage
		}
		return NewInternalError(message, nil)
	}

	h.logger.Info("conversion complete",
		"backend", h.converter.Name(),
		"files", len(files),
		"chars", len(latex),
		"latency", time.Since(start).String())

	return respond(c, http.StatusOK, models.ConvertResponse{LatexCode: latex})
}
