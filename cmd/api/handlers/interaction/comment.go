package handlers

import (
	"context"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
)

func (h *Handler) ListComments(ctx context.Context, c *app.RequestContext) {
	videoId, err := common.PathID(c, "videoId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	var param PageParam
	if err = c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ParamErr.WithMessage(err.Error()), nil)
		return
	}
	page, err := h.comments.ListVideoComments(ctx, videoId, param.Page, param.Limit)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, page, "Comments fetched successfully")
}

func (h *Handler) AddComment(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	videoId, err := common.PathID(c, "videoId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	var param ContentParam
	if err = c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ErrBind.WithMessage(err.Error()), nil)
		return
	}
	comment, err := h.comments.AddComment(ctx, videoId, userId, param.Content)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendCreated(c, comment, "Comment added successfully")
}

func (h *Handler) UpdateComment(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	commentId, err := common.PathID(c, "commentId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	var param ContentParam
	if err = c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ErrBind.WithMessage(err.Error()), nil)
		return
	}
	comment, err := h.comments.UpdateComment(ctx, commentId, userId, param.Content)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, comment, "Comment updated successfully")
}

func (h *Handler) DeleteComment(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	commentId, err := common.PathID(c, "commentId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	if err = h.comments.DeleteComment(ctx, commentId, userId); err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, struct{}{}, "Comment deleted successfully")
}
