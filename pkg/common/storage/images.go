package storage

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// ImageStore is the view of the file store used by the resource services.
type ImageStore interface {
	// Save validates and stores img below dir and returns its public URL.
	Save(ctx context.Context, dir string, img *Upload) (string, error)
	// Discard removes the image behind url. Failures are logged, never returned.
	Discard(ctx context.Context, url string)
}

type Images struct {
	store  Store
	logger hlog.FullLogger
}

func NewImages(store Store, logger hlog.FullLogger) *Images {
	if logger == nil {
		logger = hlog.DefaultLogger()
	}
	return &Images{store: store, logger: logger}
}

func (m *Images) Save(ctx context.Context, dir string, img *Upload) (string, error) {
	format, err := img.Format()
	if err != nil {
		return "", err
	}
	key := NewKey(dir, format)
	if err := m.store.Put(ctx, key, img.Data, ContentType(format)); err != nil {
		return "", err
	}
	return m.store.URL(key), nil
}

func (m *Images) Discard(ctx context.Context, url string) {
	if url == "" {
		return
	}

	key := m.store.Key(url)
	m.logger.CtxInfof(ctx, "discarding image key=%s url=%s", key, url)

	exists, err := m.store.Exists(ctx, key)
	if err != nil {
		m.logger.CtxErrorf(ctx, "image lookup failed key=%s err=%v", key, err)
		return
	}
	if !exists {
		m.logger.CtxWarnf(ctx, "image not found for deletion key=%s", key)
		return
	}

	if err := m.store.Delete(ctx, key); err != nil {
		m.logger.CtxErrorf(ctx, "image delete failed key=%s err=%v", key, err)
		return
	}
	m.logger.CtxInfof(ctx, "image deleted key=%s", key)
}
