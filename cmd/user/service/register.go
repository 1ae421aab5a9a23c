package service

import (
	"context"
	"strings"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
)

type RegisterRequest struct {
	UserName   string
	Email      string
	FullName   string
	Password   string
	AvatarPath string
	CoverPath  string
}

// Register 注册: 校验 -> 唯一性检查 -> 上传头像/封面 -> 落库
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	userName := utils.NormalizeName(req.UserName)
	email := utils.NormalizeName(req.Email)
	fullName := strings.TrimSpace(req.FullName)
	if userName == "" || email == "" || strings.TrimSpace(req.Password) == "" {
		removeLocal(req.AvatarPath, req.CoverPath)
		return nil, errno.ParamErr.WithMessage("username, email and password are required")
	}
	if !utils.IsValidEmail(email) {
		removeLocal(req.AvatarPath, req.CoverPath)
		return nil, errno.ParamErr.WithMessage("email is invalid")
	}

	exists, err := s.dao.ExistsByNameOrEmail(ctx, userName, email, 0)
	if err != nil {
		removeLocal(req.AvatarPath, req.CoverPath)
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	if exists {
		removeLocal(req.AvatarPath, req.CoverPath)
		return nil, errno.UserAlreadyExistErr
	}

	hashed, err := utils.Crypt(req.Password)
	if err != nil {
		removeLocal(req.AvatarPath, req.CoverPath)
		return nil, errors.WithMessage(err, "Password fail to crypt")
	}

	avatar, err := s.uploadOptional(ctx, req.AvatarPath, constants.MediaAvatar)
	if err != nil {
		removeLocal(req.CoverPath)
		return nil, err
	}
	cover, err := s.uploadOptional(ctx, req.CoverPath, constants.MediaCover)
	if err != nil {
		s.discard(ctx, avatar)
		return nil, err
	}

	user := &model.User{
		UserName:       userName,
		Email:          email,
		FullName:       fullName,
		Password:       hashed,
		AvatarUrl:      avatar.URL,
		AvatarPublicId: avatar.PublicID,
		CoverUrl:       cover.URL,
		CoverPublicId:  cover.PublicID,
	}
	if err = s.dao.CreateUser(ctx, user); err != nil {
		s.discard(ctx, avatar, cover)
		// 并发注册时唯一索引兜底
		if dup, _ := s.dao.ExistsByNameOrEmail(ctx, userName, email, 0); dup {
			return nil, errno.UserAlreadyExistErr
		}
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	hlog.CtxInfof(ctx, "user registered, user_id: %d, user_name: %s", user.UserId, user.UserName)
	return user, nil
}
