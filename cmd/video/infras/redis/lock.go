package redis

import (
	"context"
	"strconv"
	"time"

	"VideoTube.com/pkg/constants"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// VideoLocker 基于 redsync 的视频级分布式锁, 串行化同一视频的媒体替换
type VideoLocker struct {
	rs     *redsync.Redsync
	expiry time.Duration
}

func NewVideoLocker(rdb redis.UniversalClient) *VideoLocker {
	return &VideoLocker{
		rs:     redsync.New(goredis.NewPool(rdb)),
		expiry: constants.ThumbnailLockExpiry,
	}
}

// Lock 获取锁, 返回的 unlock 必须调用
func (l *VideoLocker) Lock(ctx context.Context, videoId int64) (func(context.Context) error, error) {
	mutex := l.rs.NewMutex("lock:video:"+strconv.FormatInt(videoId, 10),
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(16),
		redsync.WithRetryDelay(100*time.Millisecond),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, errors.Wrapf(err, "lock video %d", videoId)
	}
	return func(ctx context.Context) error {
		if _, err := mutex.UnlockContext(ctx); err != nil {
			return errors.Wrapf(err, "unlock video %d", videoId)
		}
		return nil
	}, nil
}
