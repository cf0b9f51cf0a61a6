package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/JohnnyRuss/academind-back/internal/apperror"
	"github.com/JohnnyRuss/academind-back/internal/media"
	"github.com/JohnnyRuss/academind-back/internal/middleware"
	"github.com/labstack/echo/v4"
)

const (
	maxUploadSize  = 10 << 20
	maxUploadFiles = 10
)

func getUserIDFromContext(c echo.Context) string {
	id, _ := c.Get(middleware.UserIDKey).(string)
	return id
}

func requireUser(c echo.Context) (string, error) {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return "", apperror.Unauthorized("User not authenticated")
	}
	return userID, nil
}

// bindAndValidate binds the request into req and runs the echo validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(req)
}

// parseJSONList decodes a multipart field holding a JSON encoded string
// array. An empty field is an empty list.
func parseJSONList(field, raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, apperror.Validation("%s must be a JSON array of strings", field)
	}
	return list, nil
}

// readUploads reads the files sent under field. Requests that are not
// multipart carry no uploads.
func readUploads(c echo.Context, field string) ([]media.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, apperror.Validation("invalid multipart form")
	}
	files := form.File[field]
	if len(files) > maxUploadFiles {
		return nil, apperror.Validation("at most %d files can be uploaded at once", maxUploadFiles)
	}

	uploads := make([]media.Upload, 0, len(files))
	for _, fh := range files {
		u, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

func readUpload(fh *multipart.FileHeader) (media.Upload, error) {
	if fh.Size > maxUploadSize {
		return media.Upload{}, apperror.Validation("%s is larger than %d bytes", fh.Filename, maxUploadSize)
	}
	f, err := fh.Open()
	if err != nil {
		return media.Upload{}, apperror.Internal(err, "reading %s", fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return media.Upload{}, apperror.Internal(err, "reading %s", fh.Filename)
	}
	if len(data) > maxUploadSize {
		return media.Upload{}, apperror.Validation("%s is larger than %d bytes", fh.Filename, maxUploadSize)
	}
	return media.Upload{Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Data: data}, nil
}
