package model

import (
	"time"

	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/utils"
	"gorm.io/gorm"
)

// Subscription 订阅关系, subscriber 订阅 channel
type Subscription struct {
	SubscriptionId int64     `gorm:"column:subscription_id;primaryKey;autoIncrement:false" json:"subscription_id,string"`
	SubscriberId   int64     `gorm:"column:subscriber_id;not null;uniqueIndex:uk_subscription_pair,priority:1" json:"subscriber_id,string"`
	ChannelId      int64     `gorm:"column:channel_id;not null;uniqueIndex:uk_subscription_pair,priority:2;index:idx_subscriptions_channel" json:"channel_id,string"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Subscription) TableName() string {
	return constants.SubscriptionTableName
}

func (s *Subscription) BeforeCreate(*gorm.DB) error {
	if s.SubscriptionId == 0 {
		s.SubscriptionId = utils.NextID()
	}
	return nil
}

// Tables 需要迁移的全部表
func Tables() []interface{} {
	return []interface{}{
		&User{}, &Video{}, &Tweet{}, &Comment{}, &Like{},
		&Subscription{}, &Playlist{}, &PlaylistVideo{},
	}
}
