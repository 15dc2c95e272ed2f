package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// allowedImageTypes is the upload allow-list; types are sniffed from file
// content, not taken from the client's declared Content-Type.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type UploadHandler struct {
	gate     Authorizer
	dir      string
	maxBytes int64
}

func NewUploadHandler(gate Authorizer, dir string, maxBytes int64) *UploadHandler {
	return &UploadHandler{gate: gate, dir: dir, maxBytes: maxBytes}
}

// Upload stores one multipart image under a generated filename and returns
// its relative URL. Rejections write nothing to disk.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Slack for the multipart framing and the blog_secret field.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+64<<10)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, http.StatusBadRequest, "File size too large. Maximum 5MB allowed")
			return
		}
		respondError(w, http.StatusBadRequest, "No file uploaded or upload error")
		return
	}

	if !authorized(r, h.gate, r.FormValue("blog_secret")) {
		respondError(w, http.StatusUnauthorized, msgInvalidSecret)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file uploaded or upload error")
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		respondError(w, http.StatusBadRequest, "File size too large. Maximum 5MB allowed")
		return
	}

	sniff := make([]byte, 512)
	n, err := file.Read(sniff)
	if err != nil && err != io.EOF {
		log.Error().Err(err).Msg("upload read failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	contentType, _, _ := strings.Cut(http.DetectContentType(sniff[:n]), ";")
	if !allowedImageTypes[strings.TrimSpace(contentType)] {
		respondError(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		log.Error().Err(err).Msg("upload seek failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", h.dir).Msg("upload dir create failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	filename := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(h.dir, filename)

	dst, err := os.Create(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("upload create failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		log.Error().Err(err).Str("path", path).Msg("upload write failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		log.Error().Err(err).Str("path", path).Msg("upload close failed")
		respondError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": "uploads/" + filename})
}
