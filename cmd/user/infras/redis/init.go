package redis

import (
	"context"

	"VideoTube.com/config"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"
)

// NewClient 连接 redis, 连接失败只记录日志, 由健康检查暴露
func NewClient(ctx context.Context, conf *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})

	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		hlog.Info("Could not connect to redis : ", err)
		return rdb
	}
	hlog.Info("Connected to redis : ", pong)
	return rdb
}
