package handlers

import (
	"context"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
)

func (h *Handler) ChangePassword(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	var param ChangePasswordParam
	if err = c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ErrBind.WithMessage(err.Error()), nil)
		return
	}
	if err = h.svc.ChangePassword(ctx, userId, param.OldPassword, param.NewPassword); err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, struct{}{}, "Password changed successfully")
}

func (h *Handler) CurrentUser(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	user, err := h.svc.GetUser(ctx, userId)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, user, "Current user fetched successfully")
}

func (h *Handler) UpdateAccount(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	var param UpdateAccountParam
	if err = c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ErrBind.WithMessage(err.Error()), nil)
		return
	}
	user, err := h.svc.UpdateAccount(ctx, userId, param.FullName, param.Email)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, user, "Account details updated successfully")
}

func (h *Handler) UpdateAvatar(ctx context.Context, c *app.RequestContext) {
	h.replaceImage(ctx, c, "avatar", h.svc.UpdateAvatar, "Avatar updated successfully")
}

func (h *Handler) UpdateCover(ctx context.Context, c *app.RequestContext) {
	h.replaceImage(ctx, c, "coverImage", h.svc.UpdateCover, "Cover image updated successfully")
}

func (h *Handler) replaceImage(ctx context.Context, c *app.RequestContext, field string,
	update func(context.Context, int64, string) (*model.User, error), message string) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	path, err := common.SaveUpload(c, field, h.uploadDir)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	user, err := update(ctx, userId, path)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, user, message)
}

// ChannelProfile 频道主页, 登录时计算 is_subscribed
func (h *Handler) ChannelProfile(ctx context.Context, c *app.RequestContext) {
	profile, err := h.svc.GetChannelProfile(ctx, c.Param("username"), common.OptionalUser(c))
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, profile, "User channel fetched successfully")
}

func (h *Handler) WatchHistory(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	videos, err := h.history.WatchHistory(ctx, userId)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, videos, "Watch history fetched successfully")
}
