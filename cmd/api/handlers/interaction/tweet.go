package handlers

import (
	"context"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
)

func (h *Handler) CreateTweet(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	var param ContentParam
	if err = c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ErrBind.WithMessage(err.Error()), nil)
		return
	}
	tweet, err := h.tweets.CreateTweet(ctx, userId, param.Content)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendCreated(c, tweet, "Tweet created successfully")
}

func (h *Handler) UserTweets(ctx context.Context, c *app.RequestContext) {
	userId, err := common.PathID(c, "userId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	tweets, err := h.tweets.ListUserTweets(ctx, userId)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, tweets, "Tweets fetched successfully")
}

func (h *Handler) UpdateTweet(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	tweetId, err := common.PathID(c, "tweetId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	var param ContentParam
	if err = c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ErrBind.WithMessage(err.Error()), nil)
		return
	}
	tweet, err := h.tweets.UpdateTweet(ctx, tweetId, userId, param.Content)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, tweet, "Tweet updated successfully")
}

func (h *Handler) DeleteTweet(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	tweetId, err := common.PathID(c, "tweetId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	if err = h.tweets.DeleteTweet(ctx, tweetId, userId); err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, struct{}{}, "Tweet deleted successfully")
}
