package handlers

import (
	"context"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/cmd/model"
	"VideoTube.com/cmd/video/service"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
)

type Handler struct {
	svc *service.PlaylistService
}

func NewHandler(svc *service.PlaylistService) *Handler {
	return &Handler{svc: svc}
}

type PlaylistParam struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
}

func (h *Handler) CreatePlaylist(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	var param PlaylistParam
	if err = c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ErrBind.WithMessage(err.Error()), nil)
		return
	}
	playlist, err := h.svc.CreatePlaylist(ctx, userId, param.Name, param.Description)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendCreated(c, playlist, "Playlist created successfully")
}

func (h *Handler) UserPlaylists(ctx context.Context, c *app.RequestContext) {
	userId, err := common.PathID(c, "userId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	playlists, err := h.svc.ListByOwner(ctx, userId)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, playlists, "Playlists fetched successfully")
}

func (h *Handler) GetPlaylist(ctx context.Context, c *app.RequestContext) {
	playlistId, err := common.PathID(c, "playlistId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	playlist, err := h.svc.GetPlaylist(ctx, playlistId)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, playlist, "Playlist fetched successfully")
}

func (h *Handler) UpdatePlaylist(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	playlistId, err := common.PathID(c, "playlistId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	var param PlaylistParam
	if err = c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ErrBind.WithMessage(err.Error()), nil)
		return
	}
	playlist, err := h.svc.UpdatePlaylist(ctx, playlistId, userId, param.Name, param.Description)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, playlist, "Playlist updated successfully")
}

func (h *Handler) DeletePlaylist(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	playlistId, err := common.PathID(c, "playlistId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	if err = h.svc.DeletePlaylist(ctx, playlistId, userId); err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, struct{}{}, "Playlist deleted successfully")
}

func (h *Handler) AddVideo(ctx context.Context, c *app.RequestContext) {
	h.changeMembers(ctx, c, h.svc.AddVideo, "Video added to playlist")
}

func (h *Handler) RemoveVideo(ctx context.Context, c *app.RequestContext) {
	h.changeMembers(ctx, c, h.svc.RemoveVideo, "Video removed from playlist")
}

// changeMembers /add|remove/:videoId/:playlistId
func (h *Handler) changeMembers(ctx context.Context, c *app.RequestContext,
	change func(ctx context.Context, playlistId, videoId, userId int64) (*model.PlaylistView, error), message string) {
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
	playlistId, err := common.PathID(c, "playlistId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	playlist, err := change(ctx, playlistId, videoId, userId)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, playlist, message)
}
