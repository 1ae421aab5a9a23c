package redis

import (
	"context"
	"strconv"
	"time"

	"VideoTube.com/pkg/constants"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const historyTTL = 30 * 24 * time.Hour

// HistoryStore 观看历史, 每个用户一个按观看时间排序的 zset
type HistoryStore struct {
	rdb  redis.UniversalClient
	size int64
}

func NewHistoryStore(rdb redis.UniversalClient) *HistoryStore {
	return &HistoryStore{rdb: rdb, size: constants.WatchHistorySize}
}

func historyKey(userId int64) string {
	return "history:" + strconv.FormatInt(userId, 10)
}

// Record 重复观看只更新时间, 超出容量时淘汰最早的记录
func (h *HistoryStore) Record(ctx context.Context, userId, videoId int64) error {
	key := historyKey(userId)
	pipe := h.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(time.Now().UnixNano()), Member: videoId})
	pipe.ZRemRangeByRank(ctx, key, 0, -(h.size + 1))
	pipe.Expire(ctx, key, historyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "record history user_id: %d", userId)
	}
	return nil
}

// Recent 最近观看在前
func (h *HistoryStore) Recent(ctx context.Context, userId int64, limit int64) ([]int64, error) {
	if limit <= 0 || limit > h.size {
		limit = h.size
	}
	members, err := h.rdb.ZRevRange(ctx, historyKey(userId), 0, limit-1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "read history user_id: %d", userId)
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if id, err := strconv.ParseInt(m, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Forget 视频删除后从历史中移除
func (h *HistoryStore) Forget(ctx context.Context, userId, videoId int64) error {
	err := h.rdb.ZRem(ctx, historyKey(userId), videoId).Err()
	return errors.Wrapf(err, "forget history user_id: %d", userId)
}
