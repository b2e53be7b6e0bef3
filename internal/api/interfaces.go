// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// IngestHandler accepts uploaded batches.
type IngestHandler interface {
	HandleIngest(c echo.Context) error
	HandleGetBatch(c echo.Context) error
}

// ConvertHandler turns uploaded documents into LaTeX.
type ConvertHandler interface {
	HandleConvert(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}
