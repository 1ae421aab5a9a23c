package handlers

import (
	"context"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
)

type toggleFunc func(ctx context.Context, userId, targetId int64) (*model.ToggleResult, error)

// toggle 点赞/取消点赞, 返回切换后的状态
func (h *Handler) toggle(ctx context.Context, c *app.RequestContext, param string, fn toggleFunc) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	targetId, err := common.PathID(c, param)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	res, err := fn(ctx, userId, targetId)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	message := "Like removed"
	if res.Present {
		message = "Like added"
	}
	response.SendOK(c, res, message)
}

func (h *Handler) ToggleVideoLike(ctx context.Context, c *app.RequestContext) {
	h.toggle(ctx, c, "videoId", h.likes.ToggleVideoLike)
}

func (h *Handler) ToggleCommentLike(ctx context.Context, c *app.RequestContext) {
	h.toggle(ctx, c, "commentId", h.likes.ToggleCommentLike)
}

func (h *Handler) ToggleTweetLike(ctx context.Context, c *app.RequestContext) {
	h.toggle(ctx, c, "tweetId", h.likes.ToggleTweetLike)
}

func (h *Handler) LikedVideos(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	videos, err := h.likes.LikedVideos(ctx, userId)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, videos, "Liked videos fetched successfully")
}

func (h *Handler) LikedComments(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	comments, err := h.likes.LikedComments(ctx, userId)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, comments, "Liked comments fetched successfully")
}

func (h *Handler) LikedTweets(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	tweets, err := h.likes.LikedTweets(ctx, userId)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, tweets, "Liked tweets fetched successfully")
}
