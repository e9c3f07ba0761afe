package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/go-blog-api/pkg/helpers"
)

// ImageStore writes post images to a GCS bucket under posts/<owner>/<uuid><ext>.
type ImageStore struct {
	client   *storage.Client
	bucket   string
	maxBytes int64
}

func NewImageStore(client *storage.Client, bucket string, maxBytes int64) *ImageStore {
	return &ImageStore{client: client, bucket: bucket, maxBytes: maxBytes}
}

func (s *ImageStore) Upload(ctx context.Context, ownerID string, r io.Reader, filename, contentType string) (string, error) {
	if s.maxBytes > 0 {
		r = io.LimitReader(r, s.maxBytes)
	}
	return helpers.UploadObject(ctx, s.client, s.bucket, ObjectPath(ownerID, filename), contentType, r)
}

// ObjectPath returns a fresh object name for an upload by ownerID.
func ObjectPath(ownerID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join("posts", ownerID, uuid.NewString()+ext)
}
