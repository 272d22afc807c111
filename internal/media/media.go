// Package media relays uploaded images to an external media host and
// returns the hosted URL. It never touches prompt records.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/JaimeStill/gallery/pkg/formatting"
	"github.com/JaimeStill/gallery/pkg/storage"
)

// File is an uploaded image payload.
type File struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Result describes a hosted image. Width and Height are zero when the
// format could not be decoded.
type Result struct {
	URL         string `json:"url"`
	PublicID    string `json:"public_id"`
	ContentType string `json:"content_type"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	SizeBytes   int    `json:"size_bytes"`
}

// Object is a validated image handed to a Host.
type Object struct {
	Data        []byte
	ContentType string
	Ext         string
}

// Hosted is what a Host reports after storing an Object.
type Hosted struct {
	URL      string
	PublicID string
}

// Host stores images and returns where they can be fetched.
type Host interface {
	Put(ctx context.Context, obj Object) (*Hosted, error)
}

// System validates uploads and relays them to the configured host.
type System interface {
	Handler() *Handler

	// Upload validates f and stores it on the media host.
	Upload(ctx context.Context, f File) (*Result, error)

	// Open streams a stored image by key. Only the blob provider serves images
	// itself; other providers return ErrNotFound.
	Open(ctx context.Context, key string) (*storage.Blob, error)
}

type relay struct {
	host    Host
	store   storage.System
	maxSize int64
	logger  *slog.Logger
}

// New creates a media relay that stores validated images on host.
// store may be nil when the host serves images itself.
func New(host Host, store storage.System, maxSize int64, logger *slog.Logger) System {
	return &relay{
		host:    host,
		store:   store,
		maxSize: maxSize,
		logger:  logger.With("system", "media"),
	}
}

func (m *relay) Handler() *Handler {
	return NewHandler(m, m.maxSize, m.logger)
}

func (m *relay) Upload(ctx context.Context, f File) (*Result, error) {
	contentType, err := m.validate(f)
	if err != nil {
		return nil, err
	}

	obj := Object{
		Data:        f.Data,
		ContentType: contentType,
		Ext:         extension(contentType, f.Filename),
	}

	hosted, err := m.host.Put(ctx, obj)
	if err != nil {
		m.logger.Error("media host upload failed", "error", err, "content_type", contentType, "size", len(f.Data))
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	result := &Result{
		URL:         hosted.URL,
		PublicID:    hosted.PublicID,
		ContentType: contentType,
		SizeBytes:   len(f.Data),
	}

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(f.Data)); err == nil {
		result.Width = cfg.Width
		result.Height = cfg.Height
	}

	m.logger.Info("image uploaded", "public_id", result.PublicID, "content_type", contentType, "size", len(f.Data))
	return result, nil
}

func (m *relay) Open(ctx context.Context, key string) (*storage.Blob, error) {
	if m.store == nil {
		return nil, ErrNotFound
	}
	return m.store.Download(ctx, key)
}

// validate checks size and type and returns the effective content type.
func (m *relay) validate(f File) (string, error) {
	if int64(len(f.Data)) > m.maxSize {
		return "", fmt.Errorf("%w of %s", ErrTooLarge, formatting.FormatBytes(m.maxSize, 0))
	}
	if len(f.Data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidType)
	}

	contentType := DetectContentType(f.ContentType, f.Data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: got %s", ErrInvalidType, contentType)
	}
	return contentType, nil
}

// DetectContentType returns declared unless it is empty or generic,
// in which case the type is sniffed from data. Parameters are stripped.
func DetectContentType(declared string, data []byte) string {
	ct := strings.TrimSpace(strings.ToLower(declared))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
		if i := strings.IndexByte(ct, ';'); i >= 0 {
			ct = ct[:i]
		}
	}
	return ct
}

var extensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/avif":    ".avif",
	"image/bmp":     ".bmp",
}

func extension(contentType, filename string) string {
	if ext, ok := extensions[contentType]; ok {
		return ext
	}
	return strings.ToLower(filepath.Ext(filename))
}
