package oss

import (
	"context"
	"os"
	"strings"

	"VideoTube.com/config"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker/v2"
)

type MinioStore struct {
	client     *minio.Client
	bucket     string
	baseURL    string
	maxRetries int
	breaker    *gobreaker.CircuitBreaker[struct{}]
	probe      func(path string) (float64, error)
}

func NewMinioStore(ctx context.Context, conf *config.Config) (*MinioStore, error) {
	hlog.Infof("Initializing MinIO client with endpoint: %s, accessKey: %s", conf.Minio.Endpoint, conf.Minio.AccessKey)
	client, err := minio.New(conf.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.Minio.AccessKey, conf.Minio.SecretKey, ""),
		Secure: conf.Minio.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}

	// 检查存储桶是否存在，不存在则创建
	exists, err := client.BucketExists(ctx, conf.Minio.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "check bucket")
	}
	if !exists {
		if err = client.MakeBucket(ctx, conf.Minio.Bucket, minio.MakeBucketOptions{Region: conf.Minio.Region}); err != nil {
			return nil, errors.Wrap(err, "create bucket")
		}
	}
	hlog.Info("Connect Minio Success")

	return &MinioStore{
		client:     client,
		bucket:     conf.Minio.Bucket,
		baseURL:    strings.TrimRight(conf.Minio.PublicBaseURL, "/"),
		maxRetries: conf.Minio.MaxRetries,
		breaker:    newBreaker("minio"),
		probe:      utils.ProbeDuration,
	}, nil
}

// Upload 上传本地临时文件, 无论成功与否都会删除本地文件
func (s *MinioStore) Upload(ctx context.Context, localPath, kind string) (*Media, error) {
	defer os.Remove(localPath)

	media := &Media{}
	if kind == constants.MediaVideo {
		d, err := s.probe(localPath)
		if err != nil {
			hlog.CtxWarnf(ctx, "probe duration of %s failed: %v", localPath, err)
		}
		media.Duration = d
	}

	object := objectName(kind, localPath)
	err := withRetry(ctx, s.maxRetries, s.breaker, func() error {
		_, err := s.client.FPutObject(ctx, s.bucket, object, localPath, minio.PutObjectOptions{
			ContentType: contentType(localPath, kind),
		})
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "upload %s to minio", object)
	}

	media.PublicID = object
	media.URL = s.baseURL + "/" + s.bucket + "/" + object
	return media, nil
}

func (s *MinioStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	err := withRetry(ctx, s.maxRetries, s.breaker, func() error {
		return s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{})
	})
	if err != nil {
		return errors.Wrapf(err, "remove %s from minio", publicID)
	}
	return nil
}
