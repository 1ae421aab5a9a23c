package service

import (
	"context"

	"VideoTube.com/cmd/model"
	"VideoTube.com/cmd/relation/dal/db"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/database"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/mq"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
)

type SubscriptionService struct {
	dao    *db.SubscriptionDao
	events mq.Publisher
}

func NewSubscriptionService(dao *db.SubscriptionDao, events mq.Publisher) *SubscriptionService {
	if events == nil {
		events = mq.NopPublisher{}
	}
	return &SubscriptionService{dao: dao, events: events}
}

func (s *SubscriptionService) requireUser(ctx context.Context, userId int64, notFound errno.ErrNo) error {
	exists, err := s.dao.UserExists(ctx, userId)
	if err != nil {
		return errors.WithMessage(errno.MysqlErr, err.Error())
	}
	if !exists {
		return notFound
	}
	return nil
}

// ToggleSubscription 不能订阅自己, 频道必须存在
func (s *SubscriptionService) ToggleSubscription(ctx context.Context, subscriberId, channelId int64) (*model.ToggleResult, error) {
	if channelId == subscriberId {
		return nil, errno.ParamErr.WithMessage("You cannot subscribe to your own channel")
	}
	if err := s.requireUser(ctx, channelId, errno.UserNotExistErr.WithMessage("Channel does not exist")); err != nil {
		return nil, err
	}

	subscribed, err := s.dao.ToggleSubscription(ctx, subscriberId, channelId)
	if err != nil {
		if errors.Is(err, database.ErrToggleContended) {
			return nil, errno.ConflictErr
		}
		if errors.Is(err, database.ErrTargetMissing) {
			return nil, errno.UserNotExistErr.WithMessage("Channel does not exist")
		}
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}

	event := mq.NewEvent(mq.EventSubscriptionToggled, subscriberId, constants.SubscriptionTarget, channelId, subscribed)
	if err := s.events.Publish(ctx, event); err != nil {
		hlog.CtxWarnf(ctx, "publish subscription event failed: %v", err)
	}
	return &model.ToggleResult{Present: subscribed}, nil
}

// Subscribers 频道的订阅者, 没有订阅者时返回空列表
func (s *SubscriptionService) Subscribers(ctx context.Context, channelId int64) (*model.SubscriberList, error) {
	if err := s.requireUser(ctx, channelId, errno.UserNotExistErr.WithMessage("Channel does not exist")); err != nil {
		return nil, err
	}
	res, err := s.dao.Subscribers(ctx, channelId)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return res, nil
}

// Channels 用户订阅的频道
func (s *SubscriptionService) Channels(ctx context.Context, subscriberId int64) (*model.ChannelList, error) {
	if err := s.requireUser(ctx, subscriberId, errno.UserNotExistErr); err != nil {
		return nil, err
	}
	res, err := s.dao.Channels(ctx, subscriberId)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return res, nil
}
