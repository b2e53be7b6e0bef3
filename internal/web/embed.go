// Package web embeds the browser intake page served next to the API.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed dist/*
var staticFiles embed.FS

// FileSystem returns the embedded filesystem with the dist folder as root.
func FileSystem() (fs.FS, error) {
	return fs.Sub(staticFiles, "dist")
}

// RegisterStaticRoutes serves the intake page for every non-API path.
// API routes must be registered first.
func RegisterStaticRoutes(e *echo.Echo) error {
	staticFS, err := FileSystem()
	if err != nil {
		return err
	}
	index, err := fs.ReadFile(staticFS, "index.html")
	if err != nil {
		return err
	}
	fileServer := http.FileServer(http.FS(staticFS))

	e.GET("/*", func(c echo.Context) error {
		requestPath := path.Clean(c.Request().URL.Path)
		if strings.HasPrefix(requestPath, "/api/") {
			return echo.ErrNotFound
		}

		name := strings.TrimPrefix(requestPath, "/")
		if name == "" || name == "." {
			return c.HTMLBlob(http.StatusOK, index)
		}
		if stat, err := fs.Stat(staticFS, name); err != nil || stat.IsDir() {
			return c.HTMLBlob(http.StatusOK, index)
		}

		fileServer.ServeHTTP(c.Response(), c.Request())
		return nil
	})

	return nil
}

// HasEmbeddedFiles reports whether an index page was embedded.
func HasEmbeddedFiles() bool {
	_, err := fs.Stat(staticFiles, "dist/index.html")
	return err == nil
}
