package handlers

import (
	"context"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/cmd/user/service"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
)

// Register multipart 注册, avatar 与 coverImage 可选
func (h *Handler) Register(ctx context.Context, c *app.RequestContext) {
	var param RegisterParam
	if err := c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ErrBind.WithMessage(err.Error()), nil)
		return
	}

	paths, err := common.SaveUploads(c, h.uploadDir, "avatar", "coverImage")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}

	user, err := h.svc.Register(ctx, &service.RegisterRequest{
		UserName:   param.UserName,
		Email:      param.Email,
		FullName:   param.FullName,
		Password:   param.Password,
		AvatarPath: paths[0],
		CoverPath:  paths[1],
	})
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendCreated(c, user, "User registered successfully")
}
