package service

import (
	"context"

	"VideoTube.com/cmd/interaction/dal/db"
	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/database"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/mq"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
)

type LikeService struct {
	dao    *db.LikeDao
	events mq.Publisher
}

func NewLikeService(dao *db.LikeDao, events mq.Publisher) *LikeService {
	if events == nil {
		events = mq.NopPublisher{}
	}
	return &LikeService{dao: dao, events: events}
}

var targetNotFound = map[string]errno.ErrNo{
	constants.LikeTargetVideo:   errno.VideoNotExistErr,
	constants.LikeTargetComment: errno.CommentNotExistErr,
	constants.LikeTargetTweet:   errno.TweetNotExistErr,
}

func (s *LikeService) toggle(ctx context.Context, userId int64, targetType string, targetId int64) (*model.ToggleResult, error) {
	exists, err := s.dao.TargetExists(ctx, targetType, targetId)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	if !exists {
		return nil, targetNotFound[targetType]
	}

	liked, err := s.dao.ToggleLike(ctx, userId, targetType, targetId)
	if err != nil {
		if errors.Is(err, database.ErrToggleContended) {
			return nil, errno.ConflictErr
		}
		if errors.Is(err, database.ErrTargetMissing) {
			return nil, targetNotFound[targetType]
		}
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}

	if err := s.events.Publish(ctx, mq.NewEvent(mq.EventLikeToggled, userId, targetType, targetId, liked)); err != nil {
		hlog.CtxWarnf(ctx, "publish like event failed: %v", err)
	}
	return &model.ToggleResult{Present: liked}, nil
}

func (s *LikeService) ToggleVideoLike(ctx context.Context, userId, videoId int64) (*model.ToggleResult, error) {
	return s.toggle(ctx, userId, constants.LikeTargetVideo, videoId)
}

func (s *LikeService) ToggleCommentLike(ctx context.Context, userId, commentId int64) (*model.ToggleResult, error) {
	return s.toggle(ctx, userId, constants.LikeTargetComment, commentId)
}

func (s *LikeService) ToggleTweetLike(ctx context.Context, userId, tweetId int64) (*model.ToggleResult, error) {
	return s.toggle(ctx, userId, constants.LikeTargetTweet, tweetId)
}

func (s *LikeService) LikedVideos(ctx context.Context, userId int64) (*model.LikedVideoList, error) {
	res, err := s.dao.LikedVideos(ctx, userId)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return res, nil
}

func (s *LikeService) LikedTweets(ctx context.Context, userId int64) (*model.LikedTweetList, error) {
	res, err := s.dao.LikedTweets(ctx, userId)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return res, nil
}

func (s *LikeService) LikedComments(ctx context.Context, userId int64) (*model.LikedCommentList, error) {
	res, err := s.dao.LikedComments(ctx, userId)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return res, nil
}
