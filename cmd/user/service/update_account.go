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

// UpdateAccount 修改全名或邮箱, 至少一项
func (s *UserService) UpdateAccount(ctx context.Context, userId int64, fullName, email string) (*model.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = utils.NormalizeName(email)
	if fullName == "" && email == "" {
		return nil, errno.ParamErr.WithMessage("At least one field is required")
	}

	fields := make(map[string]interface{})
	if fullName != "" {
		fields["full_name"] = fullName
	}
	if email != "" {
		if !utils.IsValidEmail(email) {
			return nil, errno.ParamErr.WithMessage("email is invalid")
		}
		taken, err := s.dao.ExistsByNameOrEmail(ctx, "", email, userId)
		if err != nil {
			return nil, errors.WithMessage(errno.MysqlErr, err.Error())
		}
		if taken {
			return nil, errno.UserAlreadyExistErr.WithMessage("Email is already in use")
		}
		fields["email"] = email
	}

	if err := s.dao.UpdateUser(ctx, userId, fields); err != nil {
		// 检查之后邮箱被并发占用, 唯一索引拒绝了更新
		if email != "" {
			if taken, _ := s.dao.ExistsByNameOrEmail(ctx, "", email, userId); taken {
				return nil, errno.UserAlreadyExistErr.WithMessage("Email is already in use")
			}
		}
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return s.GetUser(ctx, userId)
}

// UpdateAvatar 上传新头像 -> 更新记录 -> 删除旧对象
func (s *UserService) UpdateAvatar(ctx context.Context, userId int64, localPath string) (*model.User, error) {
	return s.replaceImage(ctx, userId, localPath, constants.MediaAvatar)
}

// UpdateCover 更新频道封面
func (s *UserService) UpdateCover(ctx context.Context, userId int64, localPath string) (*model.User, error) {
	return s.replaceImage(ctx, userId, localPath, constants.MediaCover)
}

func (s *UserService) replaceImage(ctx context.Context, userId int64, localPath, kind string) (*model.User, error) {
	if localPath == "" {
		return nil, errno.ParamErr.WithMessage(kind + " file is missing")
	}
	user, err := s.dao.GetUserById(ctx, userId)
	if err != nil {
		removeLocal(localPath)
		return nil, notFoundOr(err, errno.UserNotExistErr)
	}

	media, err := s.uploadOptional(ctx, localPath, kind)
	if err != nil {
		return nil, err
	}

	oldPublicId := user.AvatarPublicId
	if kind == constants.MediaCover {
		oldPublicId = user.CoverPublicId
		err = s.dao.UpdateCover(ctx, userId, media.URL, media.PublicID)
	} else {
		err = s.dao.UpdateAvatar(ctx, userId, media.URL, media.PublicID)
	}
	if err != nil {
		s.discard(ctx, media)
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}

	// 记录已切换到新对象, 旧对象清理失败只记录日志
	if oldPublicId != "" {
		if err := s.media.Delete(ctx, oldPublicId); err != nil {
			hlog.CtxWarnf(ctx, "delete old %s %s failed: %v", kind, oldPublicId, err)
		}
	}
	return s.GetUser(ctx, userId)
}
