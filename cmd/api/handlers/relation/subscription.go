package handlers

import (
	"context"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/cmd/relation/service"
	"VideoTube.com/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
)

type Handler struct {
	svc *service.SubscriptionService
}

func NewHandler(svc *service.SubscriptionService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ToggleSubscription(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	channelId, err := common.PathID(c, "channelId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	res, err := h.svc.ToggleSubscription(ctx, userId, channelId)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	message := "Unsubscribed successfully"
	if res.Present {
		message = "Subscribed successfully"
	}
	response.SendOK(c, res, message)
}

func (h *Handler) Subscribers(ctx context.Context, c *app.RequestContext) {
	channelId, err := common.PathID(c, "channelId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	list, err := h.svc.Subscribers(ctx, channelId)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, list, "Subscribers fetched successfully")
}

func (h *Handler) Channels(ctx context.Context, c *app.RequestContext) {
	subscriberId, err := common.PathID(c, "subscriberId")
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	list, err := h.svc.Channels(ctx, subscriberId)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	response.SendOK(c, list, "Subscribed channels fetched successfully")
}
