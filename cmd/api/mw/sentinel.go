package mw

import (
	"context"

	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/response"
	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/base"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/pkg/errors"
)

const apiResource = "videotube-api"

// InitSentinel 初始化 sentinel 并加载入口 QPS 限流规则
func InitSentinel(threshold float64) error {
	if err := sentinel.InitDefault(); err != nil {
		return errors.Wrap(err, "init sentinel")
	}
	_, err := flow.LoadRules([]*flow.Rule{
		{
			Resource:               apiResource,
			TokenCalculateStrategy: flow.Direct,
			ControlBehavior:        flow.Reject,
			Threshold:              threshold,
			StatIntervalInMs:       1000,
		},
	})
	if err != nil {
		return errors.Wrap(err, "load sentinel flow rules")
	}
	return nil
}

// Sentinel 超过阈值的请求直接返回 429
func Sentinel() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		entry, blockErr := sentinel.Entry(apiResource, sentinel.WithTrafficType(base.Inbound))
		if blockErr != nil {
			response.SendResponse(c, errno.RateLimitErr, nil)
			c.Abort()
			return
		}
		defer entry.Exit()
		c.Next(ctx)
	}
}
