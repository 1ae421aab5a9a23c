package oss

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"VideoTube.com/pkg/constants"
	"github.com/pkg/errors"
)

func tempFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte("data"), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p := tempFile(t, "clip.MP4")
	media, err := s.Upload(ctx, p, constants.MediaVideo)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(media.PublicID, "video/") || !strings.HasSuffix(media.PublicID, ".mp4") {
		t.Errorf("PublicID = %q", media.PublicID)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Error("local temp file should be removed after upload")
	}
	if !s.Has(media.PublicID) {
		t.Fatal("object missing after upload")
	}

	if err := s.Delete(ctx, media.PublicID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Has(media.PublicID) {
		t.Fatal("object present after delete")
	}

	s.SetUploadErr(errors.New("provider down"))
	if _, err := s.Upload(ctx, tempFile(t, "a.png"), constants.MediaThumbnail); err == nil {
		t.Fatal("expected upload failure")
	}
}

func TestWithRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		cb := newBreaker("test-retry")
		calls := 0
		err := withRetry(context.Background(), 3, cb, func() error {
			calls++
			if calls < 2 {
				return errors.New("transient")
			}
			return nil
		})
		if err != nil || calls != 2 {
			t.Fatalf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		cb := newBreaker("test-giveup")
		calls := 0
		err := withRetry(context.Background(), 2, cb, func() error {
			calls++
			return errors.New("down")
		})
		if err == nil || calls != 2 {
			t.Fatalf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		cb := newBreaker("test-cancel")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := withRetry(ctx, 5, cb, func() error {
			calls++
			return errors.New("down")
		})
		if err == nil || calls != 1 {
			t.Fatalf("err = %v, calls = %d", err, calls)
		}
	})
}
