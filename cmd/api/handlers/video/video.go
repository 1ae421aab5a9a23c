package handlers

import (
	"context"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/cmd/video/service"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
)

// ListVideos 分页查询已发布视频, 支持关键字与上传者过滤
func (h *Handler) ListVideos(ctx context.Context, c *app.RequestContext) {
	var param ListParam
	if err := c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ParamErr.WithMessage(err.Error()), nil)
		return
	}
	page, err := h.svc.ListVideos(ctx, &service.ListVideosRequest{
		Query:    param.Query,
		OwnerId:  param.UserId,
		SortBy:   param.SortBy,
		SortType: param.SortType,
		Page:     param.Page,
		PageSize: param.Limit,
	}, common.OptionalUser(c))
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, page, "Videos fetched successfully")
}

// PublishVideo multipart: videoFile 必填, thumbnail 缺省时从视频截帧
func (h *Handler) PublishVideo(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	var param PublishParam
	if err = c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ErrBind.WithMessage(err.Error()), nil)
		return
	}
	paths, err := common.SaveUploads(c, h.uploadDir, "videoFile", "thumbnail")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	video, err := h.svc.Publish(ctx, userId, &service.PublishRequest{
		Title:         param.Title,
		Description:   param.Description,
		VideoPath:     paths[0],
		ThumbnailPath: paths[1],
	})
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendCreated(c, video, "Video published successfully")
}

func (h *Handler) GetVideo(ctx context.Context, c *app.RequestContext) {
	videoId, err := common.PathID(c, "videoId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	detail, err := h.svc.GetVideo(ctx, videoId, common.OptionalUser(c))
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, detail, "Video fetched successfully")
}

func (h *Handler) UpdateVideo(ctx context.Context, c *app.RequestContext) {
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
	var param UpdateParam
	if err = c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ErrBind.WithMessage(err.Error()), nil)
		return
	}
	thumbnail, err := common.SaveUpload(c, "thumbnail", h.uploadDir)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	video, err := h.svc.UpdateVideo(ctx, videoId, userId, &service.UpdateVideoRequest{
		Title:         param.Title,
		Description:   param.Description,
		ThumbnailPath: thumbnail,
	})
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, video, "Video updated successfully")
}

func (h *Handler) UpdateThumbnail(ctx context.Context, c *app.RequestContext) {
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
	thumbnail, err := common.SaveUpload(c, "thumbnail", h.uploadDir)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	video, err := h.svc.UpdateThumbnail(ctx, videoId, userId, thumbnail)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, video, "Thumbnail updated successfully")
}

func (h *Handler) DeleteVideo(ctx context.Context, c *app.RequestContext) {
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
	if err = h.svc.DeleteVideo(ctx, videoId, userId); err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, struct{}{}, "Video deleted successfully")
}

func (h *Handler) TogglePublish(ctx context.Context, c *app.RequestContext) {
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
	video, err := h.svc.TogglePublish(ctx, videoId, userId)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, video, "Publish status toggled")
}
