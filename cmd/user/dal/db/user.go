package db

import (
	"context"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/constants"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserDao struct {
	db *gorm.DB
}

func NewUserDao(db *gorm.DB) *UserDao {
	return &UserDao{db: db}
}

func (d *UserDao) CreateUser(ctx context.Context, user *model.User) error {
	if err := d.db.WithContext(ctx).Create(user).Error; err != nil {
		return errors.Wrapf(err, "CreateUser failed, user_name: %s", user.UserName)
	}
	return nil
}

// ExistsByNameOrEmail 用户名或邮箱是否已被占用, excludeId 用于更新时排除自己
func (d *UserDao) ExistsByNameOrEmail(ctx context.Context, userName, email string, excludeId int64) (bool, error) {
	var count int64
	db := d.db.WithContext(ctx).Model(&model.User{})
	switch {
	case userName != "" && email != "":
		db = db.Where("user_name = ? OR email = ?", userName, email)
	case userName != "":
		db = db.Where("user_name = ?", userName)
	case email != "":
		db = db.Where("email = ?", email)
	default:
		return false, nil
	}
	if excludeId != 0 {
		db = db.Where("user_id <> ?", excludeId)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "query user existence failed")
	}
	return count > 0, nil
}

func (d *UserDao) GetUserById(ctx context.Context, userId int64) (*model.User, error) {
	var user model.User
	if err := d.db.WithContext(ctx).Where("user_id = ?", userId).First(&user).Error; err != nil {
		return nil, errors.Wrapf(err, "GetUserById failed, user_id: %d", userId)
	}
	return &user, nil
}

// GetUserByLogin 用户名或邮箱登录
func (d *UserDao) GetUserByLogin(ctx context.Context, userName, email string) (*model.User, error) {
	var user model.User
	db := d.db.WithContext(ctx)
	switch {
	case userName != "" && email != "":
		db = db.Where("user_name = ? OR email = ?", userName, email)
	case userName != "":
		db = db.Where("user_name = ?", userName)
	default:
		db = db.Where("email = ?", email)
	}
	if err := db.First(&user).Error; err != nil {
		return nil, errors.Wrap(err, "GetUserByLogin failed")
	}
	return &user, nil
}

func (d *UserDao) UserExists(ctx context.Context, userId int64) (bool, error) {
	var count int64
	if err := d.db.WithContext(ctx).Model(&model.User{}).Where("user_id = ?", userId).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "UserExists failed, user_id: %d", userId)
	}
	return count > 0, nil
}

func (d *UserDao) SetRefreshToken(ctx context.Context, userId int64, token string) error {
	err := d.db.WithContext(ctx).Model(&model.User{}).Where("user_id = ?", userId).
		Update("refresh_token", token).Error
	return errors.Wrapf(err, "SetRefreshToken failed, user_id: %d", userId)
}

// RotateRefreshToken 仅当库中的 token 与旧 token 相同时替换, 一个 refresh token 只能使用一次
func (d *UserDao) RotateRefreshToken(ctx context.Context, userId int64, oldToken, newToken string) (bool, error) {
	res := d.db.WithContext(ctx).Model(&model.User{}).
		Where("user_id = ? AND refresh_token = ?", userId, oldToken).
		Update("refresh_token", newToken)
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "RotateRefreshToken failed, user_id: %d", userId)
	}
	return res.RowsAffected == 1, nil
}

// UpdateUserPassword 专门用于更新用户密码
func (d *UserDao) UpdateUserPassword(ctx context.Context, userId int64, hashed string) error {
	err := d.db.WithContext(ctx).Model(&model.User{}).Where("user_id = ?", userId).
		Update("password", hashed).Error
	return errors.Wrapf(err, "Update user password failed, user_id: %d", userId)
}

func (d *UserDao) UpdateUser(ctx context.Context, userId int64, fields map[string]interface{}) error {
	err := d.db.WithContext(ctx).Model(&model.User{}).Where("user_id = ?", userId).Updates(fields).Error
	return errors.Wrapf(err, "Update user failed, user_id: %d", userId)
}

func (d *UserDao) UpdateAvatar(ctx context.Context, userId int64, url, publicId string) error {
	return d.UpdateUser(ctx, userId, map[string]interface{}{
		"avatar_url":       url,
		"avatar_public_id": publicId,
	})
}

func (d *UserDao) UpdateCover(ctx context.Context, userId int64, url, publicId string) error {
	return d.UpdateUser(ctx, userId, map[string]interface{}{
		"cover_url":       url,
		"cover_public_id": publicId,
	})
}

// GetChannelProfile 频道主页: 订阅数, 已订阅频道数, 当前用户是否订阅
func (d *UserDao) GetChannelProfile(ctx context.Context, userName string, requesterId int64) (*model.ChannelProfile, error) {
	var profiles []*model.ChannelProfile
	err := d.db.WithContext(ctx).Table(constants.UserTableName+" AS u").
		Select(`u.user_id, u.user_name, u.full_name, u.email, u.avatar_url, u.cover_url, u.created_at,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.user_id) AS subscribers_count,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.user_id) AS subscribed_to_count,
			EXISTS(SELECT 1 FROM subscriptions s WHERE s.channel_id = u.user_id AND s.subscriber_id = ?) AS is_subscribed`,
			requesterId).
		Where("u.user_name = ?", userName).
		Limit(1).
		Scan(&profiles).Error
	if err != nil {
		return nil, errors.Wrapf(err, "GetChannelProfile failed, user_name: %s", userName)
	}
	if len(profiles) == 0 {
		return nil, errors.Wrapf(gorm.ErrRecordNotFound, "channel %s", userName)
	}
	return profiles[0], nil
}
