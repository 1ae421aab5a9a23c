package oss

import (
	"context"
	"os"
	"sync"

	"VideoTube.com/pkg/constants"
)

// MemoryStore 本地开发(minio.enabled=false)和测试使用的媒体存储
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]string

	// 置为非 nil 时对应操作直接返回该错误
	UploadErr error
	DeleteErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]string)}
}

func (s *MemoryStore) Upload(ctx context.Context, localPath, kind string) (*Media, error) {
	defer os.Remove(localPath)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UploadErr != nil {
		return nil, s.UploadErr
	}
	object := objectName(kind, localPath)
	s.objects[object] = localPath
	media := &Media{PublicID: object, URL: "memory://" + object}
	if kind == constants.MediaVideo {
		media.Duration = 1
	}
	return media, nil
}

func (s *MemoryStore) Delete(ctx context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	if publicID == "" {
		return nil
	}
	// 与 S3 语义一致, 删除不存在的对象不报错
	delete(s.objects, publicID)
	return nil
}

// Has 对象是否存在
func (s *MemoryStore) Has(publicID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[publicID]
	return ok
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

func (s *MemoryStore) SetUploadErr(err error) {
	s.mu.Lock()
	s.UploadErr = err
	s.mu.Unlock()
}

func (s *MemoryStore) SetDeleteErr(err error) {
	s.mu.Lock()
	s.DeleteErr = err
	s.mu.Unlock()
}
