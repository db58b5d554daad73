// Package storage is the keyed file store used for profile and cover images.
// Objects are addressed by a slash-separated key ("covers/<uuid>.jpg") and
// exposed to clients through a public URL.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"net/url"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"music-hub/pkg/common/config"
)

var (
	ErrUploadFailed = errors.New("upload failed")
	ErrDeleteFailed = errors.New("delete failed")
	ErrInvalidImage = errors.New("invalid image")
)

// Store is implemented by every backend.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for key.
	URL(key string) string
	// Key resolves a URL produced by URL (absolute or path-only) back to its key.
	Key(rawURL string) string
	// Health reports whether the backend is reachable.
	Health(ctx context.Context) error
}

// Upload is an image received with a request.
type Upload struct {
	Filename string
	Data     []byte
}

func (u *Upload) Size() int {
	if u == nil {
		return 0
	}
	return len(u.Data)
}

var extensions = map[imaging.Format]string{
	imaging.JPEG: "jpg",
	imaging.PNG:  "png",
	imaging.GIF:  "gif",
	imaging.TIFF: "tiff",
	imaging.BMP:  "bmp",
}

var contentTypes = map[imaging.Format]string{
	imaging.JPEG: "image/jpeg",
	imaging.PNG:  "image/png",
	imaging.GIF:  "image/gif",
	imaging.TIFF: "image/tiff",
	imaging.BMP:  "image/bmp",
}

// Format decodes the upload and returns the format sniffed from its content.
// The filename extension is consulted only when the decoder name is unknown.
func (u *Upload) Format() (imaging.Format, error) {
	if u == nil || len(u.Data) == 0 {
		return 0, ErrInvalidImage
	}
	_, name, err := image.Decode(bytes.NewReader(u.Data))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if format, err := imaging.FormatFromExtension(name); err == nil {
		return format, nil
	}
	format, err := imaging.FormatFromFilename(u.Filename)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return format, nil
}

// NewKey builds a collision-free object key inside dir for the upload.
func NewKey(dir string, format imaging.Format) string {
	ext, ok := extensions[format]
	if !ok {
		ext = "bin"
	}
	return path.Join(dir, uuid.NewString()+"."+ext)
}

func ContentType(format imaging.Format) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// stripPrefix extracts the URL path and removes prefix, mirroring how the
// public URL was built.
func stripPrefix(rawURL, prefix string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.TrimPrefix(p, prefix)
	return strings.TrimPrefix(p, "/")
}

// New builds the backend selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "local", "public":
		return NewLocalStore(cfg.Root, cfg.URLPrefix)
	case "minio":
		return NewMinioStore(ctx, cfg)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
