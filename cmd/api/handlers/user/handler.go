package handlers

import (
	"context"

	"VideoTube.com/cmd/model"
	"VideoTube.com/cmd/user/service"
)

// HistoryReader 观看历史由视频服务提供
type HistoryReader interface {
	WatchHistory(ctx context.Context, userId int64) ([]*model.VideoBrief, error)
}

type Handler struct {
	svc          *service.UserService
	history      HistoryReader
	uploadDir    string
	secureCookie bool
}

func NewHandler(svc *service.UserService, history HistoryReader, uploadDir string, secureCookie bool) *Handler {
	return &Handler{svc: svc, history: history, uploadDir: uploadDir, secureCookie: secureCookie}
}

type RegisterParam struct {
	UserName string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	FullName string `form:"fullName" json:"fullName"`
	Password string `form:"password" json:"password"`
}

type LoginParam struct {
	UserName string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type RefreshParam struct {
	RefreshToken string `form:"refreshToken" json:"refreshToken"`
}

type ChangePasswordParam struct {
	OldPassword string `form:"oldPassword" json:"oldPassword"`
	NewPassword string `form:"newPassword" json:"newPassword"`
}

type UpdateAccountParam struct {
	FullName string `form:"fullName" json:"fullName"`
	Email    string `form:"email" json:"email"`
}

type LoginResult struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}
