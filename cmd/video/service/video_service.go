package service

import (
	"context"

	"VideoTube.com/cmd/video/dal/db"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/mq"
	"VideoTube.com/pkg/oss"
	"VideoTube.com/pkg/search"
	"VideoTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// WatchHistory 观看历史存储
type WatchHistory interface {
	Record(ctx context.Context, userId, videoId int64) error
	Recent(ctx context.Context, userId int64, limit int64) ([]int64, error)
}

// Locker 按视频加锁, 串行化媒体替换
type Locker interface {
	Lock(ctx context.Context, videoId int64) (func(context.Context) error, error)
}

// Thumbnailer 从视频截取封面, 返回本地图片路径
type Thumbnailer func(videoPath, outputDir string) (string, error)

type VideoService struct {
	dao         *db.VideoDao
	media       oss.MediaStore
	index       search.VideoIndex
	history     WatchHistory
	locker      Locker
	events      mq.Publisher
	thumbnailer Thumbnailer
	previewSize int
}

type Option func(*VideoService)

func WithSearchIndex(index search.VideoIndex) Option {
	return func(s *VideoService) { s.index = index }
}

func WithHistory(history WatchHistory) Option {
	return func(s *VideoService) { s.history = history }
}

func WithLocker(locker Locker) Option {
	return func(s *VideoService) { s.locker = locker }
}

func WithPublisher(events mq.Publisher) Option {
	return func(s *VideoService) { s.events = events }
}

func WithThumbnailer(fn Thumbnailer) Option {
	return func(s *VideoService) { s.thumbnailer = fn }
}

// WithCommentPreview 列表中每个视频附带的评论数, 0 表示不附带
func WithCommentPreview(n int) Option {
	return func(s *VideoService) { s.previewSize = n }
}

func NewVideoService(dao *db.VideoDao, media oss.MediaStore, opts ...Option) *VideoService {
	s := &VideoService{
		dao:         dao,
		media:       media,
		events:      mq.NopPublisher{},
		thumbnailer: utils.GetVideoThumnail,
		previewSize: constants.CommentPreviewSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func notFoundOr(err error, notFound errno.ErrNo) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return errors.WithMessage(errno.MysqlErr, err.Error())
}

func (s *VideoService) publish(ctx context.Context, event *mq.DomainEvent) {
	if err := s.events.Publish(ctx, event); err != nil {
		hlog.CtxWarnf(ctx, "publish %s failed: %v", event.EventType, err)
	}
}

// discard 回滚已上传的对象
func (s *VideoService) discard(ctx context.Context, medias ...*oss.Media) {
	for _, m := range medias {
		if m == nil || m.PublicID == "" {
			continue
		}
		if err := s.media.Delete(ctx, m.PublicID); err != nil {
			hlog.CtxWarnf(ctx, "discard media %s failed: %v", m.PublicID, err)
		}
	}
}
