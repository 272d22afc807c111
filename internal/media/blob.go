package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/gallery/pkg/storage"
)

type blobHost struct {
	store   storage.System
	baseURL string
	now     func() time.Time
}

// NewBlobHost stores images in blob storage under images/<yyyy>/<mm>/<uuid><ext>.
// Returned URLs are baseURL joined with the key.
func NewBlobHost(store storage.System, baseURL string) Host {
	return &blobHost{
		store:   store,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		now:     time.Now,
	}
}

func (h *blobHost) Put(ctx context.Context, obj Object) (*Hosted, error) {
	key := BlobKey(h.now(), uuid.NewString(), obj.Ext)

	if err := h.store.Upload(ctx, key, bytes.NewReader(obj.Data), obj.ContentType); err != nil {
		return nil, err
	}

	return &Hosted{
		URL:      h.baseURL + "/" + key,
		PublicID: key,
	}, nil
}

// BlobKey builds the storage key for an image uploaded at t.
func BlobKey(t time.Time, id, ext string) string {
	t = t.UTC()
	return fmt.Sprintf("images/%04d/%02d/%s%s", t.Year(), int(t.Month()), id, ext)
}
