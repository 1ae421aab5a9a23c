package service

import (
	"context"
	"strings"

	"VideoTube.com/cmd/interaction/dal/db"
	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/authz"
	"VideoTube.com/pkg/errno"
	"github.com/pkg/errors"
)

type TweetService struct {
	dao *db.TweetDao
}

func NewTweetService(dao *db.TweetDao) *TweetService {
	return &TweetService{dao: dao}
}

func (s *TweetService) CreateTweet(ctx context.Context, userId int64, content string) (*model.TweetView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errno.ParamErr.WithMessage("content is required")
	}
	tweet := &model.Tweet{UploaderId: userId, Content: content}
	if err := s.dao.CreateTweet(ctx, tweet); err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	view, err := s.dao.GetTweetView(ctx, tweet.TweetId)
	if err != nil {
		return nil, notFoundOr(err, errno.TweetNotExistErr)
	}
	return view, nil
}

// ListUserTweets 用户不存在返回 NotFound, 没有动态时返回空列表
func (s *TweetService) ListUserTweets(ctx context.Context, userId int64) ([]*model.TweetView, error) {
	exists, err := s.dao.UserExists(ctx, userId)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	if !exists {
		return nil, errno.UserNotExistErr
	}
	tweets, err := s.dao.ListUserTweets(ctx, userId)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return tweets, nil
}

func (s *TweetService) loadOwned(ctx context.Context, tweetId, userId int64) (*model.Tweet, error) {
	tweet, err := s.dao.GetTweetById(ctx, tweetId)
	if err != nil {
		return nil, notFoundOr(err, errno.TweetNotExistErr)
	}
	if err := authz.CheckOwner(userId, tweet.UploaderId, "tweet"); err != nil {
		return nil, err
	}
	return tweet, nil
}

func (s *TweetService) UpdateTweet(ctx context.Context, tweetId, userId int64, content string) (*model.TweetView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errno.ParamErr.WithMessage("content is required")
	}
	if _, err := s.loadOwned(ctx, tweetId, userId); err != nil {
		return nil, err
	}
	if err := s.dao.UpdateTweet(ctx, tweetId, content); err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	view, err := s.dao.GetTweetView(ctx, tweetId)
	if err != nil {
		return nil, notFoundOr(err, errno.TweetNotExistErr)
	}
	return view, nil
}

// DeleteTweet 动态的点赞一并删除
func (s *TweetService) DeleteTweet(ctx context.Context, tweetId, userId int64) error {
	if _, err := s.loadOwned(ctx, tweetId, userId); err != nil {
		return err
	}
	if err := s.dao.DeleteTweetCascade(ctx, tweetId); err != nil {
		return notFoundOr(err, errno.TweetNotExistErr)
	}
	return nil
}
