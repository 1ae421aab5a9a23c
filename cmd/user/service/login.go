package service

import (
	"context"
	"strings"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
)

// Login 用户名或邮箱 + 密码登录, 成功后保存 refresh token
func (s *UserService) Login(ctx context.Context, userName, email, password string) (*model.User, *jwt.Tokens, error) {
	userName = utils.NormalizeName(userName)
	email = utils.NormalizeName(email)
	if userName == "" && email == "" {
		return nil, nil, errno.ParamErr.WithMessage("username or email is required")
	}
	if strings.TrimSpace(password) == "" {
		return nil, nil, errno.ParamErr.WithMessage("password is required")
	}

	user, err := s.dao.GetUserByLogin(ctx, userName, email)
	if err != nil {
		return nil, nil, notFoundOr(err, errno.UserNotExistErr)
	}
	if _, ok := utils.VerifyPassword(password, user.Password); !ok {
		return nil, nil, errno.PasswordErr
	}

	tokens, err := s.tokens.Issue(user.UserId)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "issue tokens failed")
	}
	if err = s.dao.SetRefreshToken(ctx, user.UserId, tokens.RefreshToken); err != nil {
		return nil, nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	user.RefreshToken = tokens.RefreshToken
	hlog.CtxInfof(ctx, "user logged in, user_id: %d", user.UserId)
	return user, tokens, nil
}

// Logout 清空 refresh token, 之后该 token 无法再换取新 token
func (s *UserService) Logout(ctx context.Context, userId int64) error {
	if err := s.dao.SetRefreshToken(ctx, userId, ""); err != nil {
		return errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return nil
}

// RefreshToken 用 refresh token 换新的 token 对, 旧 token 必须与库中保存的一致
func (s *UserService) RefreshToken(ctx context.Context, incoming string) (*jwt.Tokens, error) {
	if incoming == "" {
		return nil, errno.TokenInvailedErr.WithMessage("Unauthorized request")
	}
	userId, err := s.tokens.VerifyRefresh(incoming)
	if err != nil {
		return nil, err
	}
	exists, err := s.dao.UserExists(ctx, userId)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	if !exists {
		return nil, errno.TokenInvailedErr.WithMessage("Invalid refresh token")
	}

	tokens, err := s.tokens.Issue(userId)
	if err != nil {
		return nil, errors.WithMessage(err, "issue tokens failed")
	}
	rotated, err := s.dao.RotateRefreshToken(ctx, userId, incoming, tokens.RefreshToken)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	if !rotated {
		return nil, errno.TokenInvailedErr.WithMessage("Refresh token is expired or used")
	}
	return tokens, nil
}

// ChangePassword 校验旧密码后修改
func (s *UserService) ChangePassword(ctx context.Context, userId int64, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return errno.ParamErr.WithMessage("new password is required")
	}
	user, err := s.dao.GetUserById(ctx, userId)
	if err != nil {
		return notFoundOr(err, errno.UserNotExistErr)
	}
	if _, ok := utils.VerifyPassword(oldPassword, user.Password); !ok {
		return errno.ParamErr.WithMessage("Invalid old password")
	}
	hashed, err := utils.Crypt(newPassword)
	if err != nil {
		return errors.WithMessage(err, "Password fail to crypt")
	}
	if err = s.dao.UpdateUserPassword(ctx, userId, hashed); err != nil {
		return errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return nil
}
