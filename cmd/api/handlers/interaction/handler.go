package handlers

import (
	"VideoTube.com/cmd/interaction/service"
)

type Handler struct {
	comments *service.CommentService
	tweets   *service.TweetService
	likes    *service.LikeService
}

func NewHandler(comments *service.CommentService, tweets *service.TweetService, likes *service.LikeService) *Handler {
	return &Handler{comments: comments, tweets: tweets, likes: likes}
}

type ContentParam struct {
	Content string `form:"content" json:"content"`
}

type PageParam struct {
	Page  int64 `query:"page"`
	Limit int64 `query:"limit"`
}
