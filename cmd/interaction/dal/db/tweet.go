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

type TweetDao struct {
	db *gorm.DB
}

func NewTweetDao(db *gorm.DB) *TweetDao {
	return &TweetDao{db: db}
}

const tweetViewSelect = `t.tweet_id, t.content, t.created_at, t.updated_at, ` + model.UploaderSelect + `,
	(SELECT COUNT(*) FROM likes l WHERE l.target_type = 'tweet' AND l.target_id = t.tweet_id) AS likes_count`

type tweetRow struct {
	TweetId    int64
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LikesCount int64
	model.UploaderColumns
}

func (r *tweetRow) view() *model.TweetView {
	return &model.TweetView{
		TweetId:    r.TweetId,
		Content:    r.Content,
		Author:     r.Profile(),
		LikesCount: r.LikesCount,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (d *TweetDao) CreateTweet(ctx context.Context, tweet *model.Tweet) error {
	if err := d.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return errors.Wrapf(err, "CreateTweet failed, uploader_id: %d", tweet.UploaderId)
	}
	return nil
}

func (d *TweetDao) GetTweetById(ctx context.Context, tweetId int64) (*model.Tweet, error) {
	var tweet model.Tweet
	if err := d.db.WithContext(ctx).Where("tweet_id = ?", tweetId).First(&tweet).Error; err != nil {
		return nil, errors.Wrapf(err, "GetTweetById failed, tweet_id: %d", tweetId)
	}
	return &tweet, nil
}

func (d *TweetDao) UpdateTweet(ctx context.Context, tweetId int64, content string) error {
	err := d.db.WithContext(ctx).Model(&model.Tweet{}).Where("tweet_id = ?", tweetId).
		Update("content", content).Error
	return errors.Wrapf(err, "UpdateTweet failed, tweet_id: %d", tweetId)
}

// DeleteTweetCascade 同一事务中删除动态及其点赞
func (d *TweetDao) DeleteTweetCascade(ctx context.Context, tweetId int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.LockExclusive(tx, constants.TweetTableName, "tweet_id", tweetId); err != nil {
			if errors.Is(err, database.ErrTargetMissing) {
				return errors.Wrapf(gorm.ErrRecordNotFound, "tweet %d", tweetId)
			}
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", constants.LikeTargetTweet, tweetId).
			Delete(&model.Like{}).Error; err != nil {
			return errors.Wrap(err, "delete tweet likes")
		}
		res := tx.Where("tweet_id = ?", tweetId).Delete(&model.Tweet{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete tweet")
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(gorm.ErrRecordNotFound, "tweet %d", tweetId)
		}
		return nil
	})
}

func (d *TweetDao) tweets(ctx context.Context, where string, arg int64) ([]*model.TweetView, error) {
	var rows []*tweetRow
	err := d.db.WithContext(ctx).Table(constants.TweetTableName+" AS t").
		Select(tweetViewSelect).
		Joins("LEFT JOIN "+constants.UserTableName+" AS u ON u.user_id = t.uploader_id").
		Where(where, arg).
		Order("t.created_at DESC").
		Order("t.tweet_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make([]*model.TweetView, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.view())
	}
	return res, nil
}

// ListUserTweets 用户的全部动态, 最新在前
func (d *TweetDao) ListUserTweets(ctx context.Context, userId int64) ([]*model.TweetView, error) {
	res, err := d.tweets(ctx, "t.uploader_id = ?", userId)
	return res, errors.Wrapf(err, "ListUserTweets failed, user_id: %d", userId)
}

func (d *TweetDao) GetTweetView(ctx context.Context, tweetId int64) (*model.TweetView, error) {
	res, err := d.tweets(ctx, "t.tweet_id = ?", tweetId)
	if err != nil {
		return nil, errors.Wrapf(err, "GetTweetView failed, tweet_id: %d", tweetId)
	}
	if len(res) == 0 {
		return nil, errors.Wrapf(gorm.ErrRecordNotFound, "tweet %d", tweetId)
	}
	return res[0], nil
}

func (d *TweetDao) UserExists(ctx context.Context, userId int64) (bool, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&model.User{}).Where("user_id = ?", userId).Count(&n).Error
	if err != nil {
		return false, errors.Wrapf(err, "UserExists failed, user_id: %d", userId)
	}
	return n > 0, nil
}
