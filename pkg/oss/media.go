// Package oss stores uploaded media (videos, thumbnails, avatars, covers) in object storage.
package oss

import (
	"context"
	"mime"
	"path/filepath"
	"strings"

	"VideoTube.com/pkg/constants"
	"github.com/google/uuid"
)

// Media 上传结果, PublicID 用于之后删除对象
type Media struct {
	URL      string  `json:"url"`
	PublicID string  `json:"public_id"`
	Duration float64 `json:"duration"`
}

// MediaStore 外部媒体存储
type MediaStore interface {
	Upload(ctx context.Context, localPath, kind string) (*Media, error)
	Delete(ctx context.Context, publicID string) error
}

// objectName 例如 video/2f1c...e9.mp4
func objectName(kind, localPath string) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	if kind == "" {
		kind = "raw"
	}
	return kind + "/" + uuid.NewString() + ext
}

func contentType(localPath, kind string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(localPath))); ct != "" {
		return ct
	}
	if kind == constants.MediaVideo {
		return "video/mp4"
	}
	return "application/octet-stream"
}
