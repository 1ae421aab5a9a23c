package db

import (
	"context"
	"time"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type SubscriptionDao struct {
	db *gorm.DB
}

func NewSubscriptionDao(db *gorm.DB) *SubscriptionDao {
	return &SubscriptionDao{db: db}
}

// ToggleSubscription subscriber 订阅/取消订阅 channel, 返回切换后是否订阅
func (d *SubscriptionDao) ToggleSubscription(ctx context.Context, subscriberId, channelId int64) (bool, error) {
	subscribed, err := database.Toggle(ctx, d.db,
		func(tx *gorm.DB) error {
			return database.LockShared(tx, constants.UserTableName, "user_id", channelId)
		},
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("subscriber_id = ? AND channel_id = ?", subscriberId, channelId).
				Delete(&model.Subscription{})
		},
		func() interface{} {
			return &model.Subscription{SubscriberId: subscriberId, ChannelId: channelId}
		})
	if err != nil {
		return false, errors.WithMessagef(err, "ToggleSubscription failed, channel_id: %d", channelId)
	}
	return subscribed, nil
}

func (d *SubscriptionDao) UserExists(ctx context.Context, userId int64) (bool, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&model.User{}).Where("user_id = ?", userId).Count(&n).Error
	if err != nil {
		return false, errors.Wrapf(err, "UserExists failed, user_id: %d", userId)
	}
	return n > 0, nil
}

type subscriptionRow struct {
	SubscriptionId int64
	CreatedAt      time.Time
	model.UploaderColumns
}

// entries joinColumn 为需要展示资料的一方, filterColumn 为查询条件
func (d *SubscriptionDao) entries(ctx context.Context, joinColumn, filterColumn string, userId int64) ([]*model.SubscriptionEntry, error) {
	var rows []*subscriptionRow
	err := d.db.WithContext(ctx).Table(constants.SubscriptionTableName+" AS s").
		Select("s.subscription_id, s.created_at, "+model.UploaderSelect).
		Joins("LEFT JOIN "+constants.UserTableName+" AS u ON u.user_id = s."+joinColumn).
		Where("s."+filterColumn+" = ?", userId).
		Order("s.created_at DESC").
		Order("s.subscription_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make([]*model.SubscriptionEntry, 0, len(rows))
	for _, r := range rows {
		res = append(res, &model.SubscriptionEntry{
			SubscriptionId: r.SubscriptionId,
			User:           r.Profile(),
			CreatedAt:      r.CreatedAt,
		})
	}
	return res, nil
}

// Subscribers 订阅了 channelId 的用户
func (d *SubscriptionDao) Subscribers(ctx context.Context, channelId int64) (*model.SubscriberList, error) {
	entries, err := d.entries(ctx, "subscriber_id", "channel_id", channelId)
	if err != nil {
		return nil, errors.Wrapf(err, "Subscribers failed, channel_id: %d", channelId)
	}
	return &model.SubscriberList{Subscribers: entries, SubscriberCount: int64(len(entries))}, nil
}

// Channels subscriberId 订阅的频道
func (d *SubscriptionDao) Channels(ctx context.Context, subscriberId int64) (*model.ChannelList, error) {
	entries, err := d.entries(ctx, "channel_id", "subscriber_id", subscriberId)
	if err != nil {
		return nil, errors.Wrapf(err, "Channels failed, subscriber_id: %d", subscriberId)
	}
	return &model.ChannelList{Channels: entries, ChannelCount: int64(len(entries))}, nil
}
