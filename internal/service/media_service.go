package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const MaxImageSize = 8 << 20

var allowedImageTypes = map[string]struct{}{
	"jpg": {}, "png": {}, "gif": {}, "webp": {},
}

type MediaService interface {
	UploadImage(ctx context.Context, userID int64, data []byte) (string, error)
}

type mediaService struct {
	storage ObjectStorage
}

// NewMediaService returns a service that rejects uploads when storage is nil.
func NewMediaService(storage ObjectStorage) MediaService {
	return &mediaService{storage: storage}
}

func (s *mediaService) UploadImage(ctx context.Context, userID int64, data []byte) (string, error) {
	if s.storage == nil {
		return "", ErrMediaNotConfigured
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrUnsupportedMedia)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrUnsupportedMedia, MaxImageSize)
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == types.Unknown {
		return "", ErrUnsupportedMedia
	}
	if _, ok := allowedImageTypes[kind.Extension]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, kind.Extension)
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("posts/%d/%s.%s", userID, id, kind.Extension)

	url, err := s.storage.Upload(ctx, key, data, kind.MIME.Value)
	if err != nil {
		return "", fmt.Errorf("error uploading image: %w", err)
	}

	slog.Info("image uploaded", "user_id", userID, "key", key)
	return url, nil
}
