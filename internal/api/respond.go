package api

import (
	"bytes"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// MIMEMsgpack is the content type for msgpack-encoded responses.
const MIMEMsgpack = "application/msgpack"

// wantsMsgpack reports whether the client asked for msgpack.
func wantsMsgpack(c echo.Context) bool {
	for _, accept := range strings.Split(c.Request().Header.Get(echo.HeaderAccept), ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(accept), ";")
		if mediaType == MIMEMsgpack || mediaType == "application/x-msgpack" {
			return true
		}
	}
	return false
}

// respond writes v as JSON, or as msgpack when the client accepts it.
// Struct fields keep their JSON names in both encodings.
func respond(c echo.Context, status int, v any) error {
	if !wantsMsgpack(c) {
		return c.JSON(status, v)
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(status, MIMEMsgpack, buf.Bytes())
}

// isMultipart reports whether the request body is multipart/form-data.
func isMultipart(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(strings.ToLower(ct), echo.MIMEMultipartForm)
}
