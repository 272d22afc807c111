package media

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/gallery/pkg/handlers"
	"github.com/JaimeStill/gallery/pkg/routes"
)

// FormField is the multipart field carrying the uploaded image.
const FormField = "image"

// multipartOverhead leaves room for boundaries and headers around the file part.
const multipartOverhead = 1 << 20

// UploadResponse is the JSON body returned for a successful upload.
type UploadResponse struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Handler provides HTTP endpoints for image upload and blob media serving.
type Handler struct {
	sys     System
	maxSize int64
	logger  *slog.Logger
}

// NewHandler creates a Handler that accepts images up to maxSize bytes.
func NewHandler(sys System, maxSize int64, logger *slog.Logger) *Handler {
	return &Handler{
		sys:     sys,
		maxSize: maxSize,
		logger:  logger.With("handler", "media"),
	}
}

// Routes returns the upload and media group definitions.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/upload", Handler: h.Upload},
			{Method: "GET", Pattern: "/media/{key...}", Handler: h.Serve},
		},
	}
}

// Upload reads the multipart image field and relays it to the media host.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxSize + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: invalid multipart form", ErrInvalidType))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(FormField)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %q field required", ErrInvalidType, FormField))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxSize+1))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := h.sys.Upload(r.Context(), File{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, UploadResponse{
		Success:  true,
		URL:      result.URL,
		PublicID: result.PublicID,
		Width:    result.Width,
		Height:   result.Height,
	})
}

// Serve streams a blob-hosted image by key.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	blob, err := h.sys.Open(r.Context(), r.PathValue("key"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer blob.Body.Close()

	w.Header().Set("Content-Type", blob.ContentType)
	if blob.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.ContentLength, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, blob.Body); err != nil {
		h.logger.Warn("media stream interrupted", "error", err)
	}
}
