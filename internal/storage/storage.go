// Package storage keeps product images in a MinIO bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog/log"
)

// MaxImageSize bounds an upload; larger files are rejected before reaching MinIO.
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ExtensionFor returns the file extension for an accepted image content
// type, or false.
func ExtensionFor(contentType string) (string, bool) {
	ext, ok := allowedImageTypes[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

// ObjectName builds a collision-free key under products/.
func ObjectName(ext string) string {
	return path.Join("products", uuid.NewString()+ext)
}

type Images struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewImages serves objects from publicURL when set, else straight from
// the MinIO endpoint.
func NewImages(client *minio.Client, bucket, publicURL string) *Images {
	if publicURL == "" {
		publicURL = client.EndpointURL().String()
	}
	return &Images{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

// URL is the public address of objectName.
func (s *Images) URL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName)
}

// ObjectFromURL reverses URL, for deleting the image of a product.
func (s *Images) ObjectFromURL(url string) (string, bool) {
	prefix := s.publicURL + "/" + s.bucket + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// Upload stores r under objectName and returns its public URL.
func (s *Images) Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	log.Info().Str("object", objectName).Int64("size", size).Msg("🖼️ Image uploaded")
	return s.URL(objectName), nil
}

func (s *Images) Delete(ctx context.Context, objectName string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", objectName, err)
	}
	log.Info().Str("object", objectName).Msg("🗑️ Image deleted")
	return nil
}
