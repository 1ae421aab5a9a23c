package handlers

import (
	"VideoTube.com/cmd/video/service"
)

type Handler struct {
	svc       *service.VideoService
	uploadDir string
}

func NewHandler(svc *service.VideoService, uploadDir string) *Handler {
	return &Handler{svc: svc, uploadDir: uploadDir}
}

type ListParam struct {
	Query    string `query:"query"`
	UserId   int64  `query:"userId"`
	SortBy   string `query:"sortBy"`
	SortType string `query:"sortType"`
	Page     int64  `query:"page"`
	Limit    int64  `query:"limit"`
}

type PublishParam struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
}

type UpdateParam struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
}
