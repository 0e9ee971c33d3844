package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Media key prefixes.
const (
	PrefixImage = "quote_image"
	PrefixVideo = "quote_video"
)

// ObjectKey builds a unique object key such as
// image-gen/quote_image_20250715_071033_1a2b3c4d.jpeg.
func ObjectKey(folder, prefix, ext string, now time.Time) string {
	name := fmt.Sprintf("%s_%s_%s.%s",
		prefix,
		now.Format("20060102_150405"),
		uuid.New().String()[:8],
		strings.TrimPrefix(ext, "."),
	)
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

// PutBytes uploads an in-memory object and returns its public URL.
func PutBytes(ctx context.Context, s ObjectStorage, key string, data []byte, contentType string) (string, error) {
	if err := s.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}
	return s.GetURL(key), nil
}
