package service

import (
	"context"
	"os"

	"VideoTube.com/cmd/model"
	"VideoTube.com/cmd/user/dal/db"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/oss"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// TokenIssuer 签发与校验 token
type TokenIssuer interface {
	Issue(userId int64) (*jwt.Tokens, error)
	VerifyRefresh(token string) (int64, error)
}

type UserService struct {
	dao    *db.UserDao
	tokens TokenIssuer
	media  oss.MediaStore
}

func NewUserService(dao *db.UserDao, tokens TokenIssuer, media oss.MediaStore) *UserService {
	return &UserService{dao: dao, tokens: tokens, media: media}
}

// GetUser 当前登录用户信息
func (s *UserService) GetUser(ctx context.Context, userId int64) (*model.User, error) {
	user, err := s.dao.GetUserById(ctx, userId)
	if err != nil {
		return nil, notFoundOr(err, errno.UserNotExistErr)
	}
	return user, nil
}

// GetChannelProfile 根据用户名获取频道信息, requesterId 为 0 时 is_subscribed 恒为 false
func (s *UserService) GetChannelProfile(ctx context.Context, userName string, requesterId int64) (*model.ChannelProfile, error) {
	if userName == "" {
		return nil, errno.ParamErr.WithMessage("username is missing")
	}
	profile, err := s.dao.GetChannelProfile(ctx, userName, requesterId)
	if err != nil {
		return nil, notFoundOr(err, errno.UserNotExistErr.WithMessage("Channel does not exist"))
	}
	return profile, nil
}

func notFoundOr(err error, notFound errno.ErrNo) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return errors.WithMessage(errno.MysqlErr, err.Error())
}

// uploadOptional 上传可选的本地文件, path 为空时跳过
func (s *UserService) uploadOptional(ctx context.Context, path, kind string) (*oss.Media, error) {
	if path == "" {
		return &oss.Media{}, nil
	}
	media, err := s.media.Upload(ctx, path, kind)
	if err != nil {
		return nil, errors.WithMessage(errno.OssErr.WithMessage("Error while uploading "+kind), err.Error())
	}
	return media, nil
}

// discard 回滚已上传的对象
func (s *UserService) discard(ctx context.Context, medias ...*oss.Media) {
	for _, m := range medias {
		if m == nil || m.PublicID == "" {
			continue
		}
		if err := s.media.Delete(ctx, m.PublicID); err != nil {
			hlog.CtxWarnf(ctx, "discard media %s failed: %v", m.PublicID, err)
		}
	}
}

func removeLocal(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}
