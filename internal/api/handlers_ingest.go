// handlers_ingest.go - Batch ingest handlers
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/texforge/backend/internal/ingest"
	"github.com/texforge/backend/internal/models"
)

// FilesField is the multipart field carrying uploaded documents.
const FilesField = "files"

// IngestHandlerImpl implements the IngestHandler interface
type IngestHandlerImpl struct {
	service *ingest.Service
	logger  *slog.Logger
}

// NewIngestHandler creates a new ingest handler instance
func NewIngestHandler(service *ingest.Service, logger *slog.Logger) IngestHandler {
	return &IngestHandlerImpl{
		service: service,
		logger:  logger,
	}
}

// HandleIngest validates a multipart batch and records its metadata
func (h *IngestHandlerImpl) HandleIngest(c echo.Context) error {
	if !isMultipart(c) {
		return NewBadRequestError("Request must be multipart/form-data", nil)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return NewBadRequestError("Request must be multipart/form-data", err)
	}
	defer form.RemoveAll()

	headers := form.File[FilesField]
	if len(headers) == 0 {
		return NewBadRequestError("No files provided", nil)
	}

	batch, err := h.service.Ingest(c.Request().Context(), ingest.FromMultipart(headers))
	if err != nil {
		var rejection *ingest.RejectionError
		if errors.As(err, &rejection) {
			h.logger.Info("ingest rejected", "file", rejection.Name, "reason", rejection.Message)
			return NewBadRequestError(rejection.Message, nil)
		}
		h.logger.Error("ingest failed", "error", err)
		return NewInternalError("Failed to process the document", err)
	}

	return respond(c, http.StatusOK, models.IngestResponse{
		Success:      true,
		Message:      ingest.SuccessMessage(len(batch.Files)),
		DocumentID:   batch.ID,
		FileMetadata: batch.Files,
	})
}

// HandleGetBatch returns the metadata recorded for an ingested batch
func (h *IngestHandlerImpl) HandleGetBatch(c echo.Context) error {
	id := c.Param("documentId")
	batch, ok := h.service.Registry().Get(id)
	if !ok {
		return NewNotFoundError("document", id)
	}
	return respond(c, http.StatusOK, batch)
}
