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

type LikeDao struct {
	db *gorm.DB
}

func NewLikeDao(db *gorm.DB) *LikeDao {
	return &LikeDao{db: db}
}

// ToggleLike 翻转 (liker, target) 点赞关系, 返回切换后是否点赞.
// 目标在事务内已被删除时返回 database.ErrTargetMissing.
func (d *LikeDao) ToggleLike(ctx context.Context, likerId int64, targetType string, targetId int64) (bool, error) {
	t, ok := targetTables[targetType]
	if !ok {
		return false, errors.Errorf("unknown like target %q", targetType)
	}
	liked, err := database.Toggle(ctx, d.db,
		func(tx *gorm.DB) error {
			return database.LockShared(tx, t[0], t[1], targetId)
		},
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("liker_id = ? AND target_type = ? AND target_id = ?", likerId, targetType, targetId).
				Delete(&model.Like{})
		},
		func() interface{} {
			return &model.Like{LikerId: likerId, TargetType: targetType, TargetId: targetId}
		})
	if err != nil {
		return false, errors.WithMessagef(err, "ToggleLike failed, %s: %d", targetType, targetId)
	}
	return liked, nil
}

var targetTables = map[string][2]string{
	constants.LikeTargetVideo:   {constants.VideoTableName, "video_id"},
	constants.LikeTargetComment: {constants.CommentTableName, "comment_id"},
	constants.LikeTargetTweet:   {constants.TweetTableName, "tweet_id"},
}

// TargetExists 点赞目标是否存在
func (d *LikeDao) TargetExists(ctx context.Context, targetType string, targetId int64) (bool, error) {
	t, ok := targetTables[targetType]
	if !ok {
		return false, errors.Errorf("unknown like target %q", targetType)
	}
	var n int64
	if err := d.db.WithContext(ctx).Table(t[0]).Where(t[1]+" = ?", targetId).Count(&n).Error; err != nil {
		return false, errors.Wrapf(err, "TargetExists failed, %s: %d", targetType, targetId)
	}
	return n > 0, nil
}

type likedVideoRow struct {
	LikeId       int64
	LikedAt      time.Time
	VideoId      int64
	Title        string
	Description  string
	VideoUrl     string
	ThumbnailUrl string
	Duration     float64
	Views        int64
	IsPublished  bool
	CreatedAt    time.Time
	model.UploaderColumns
}

// LikedVideos 用户点赞过的已发布视频, 最近点赞在前
func (d *LikeDao) LikedVideos(ctx context.Context, likerId int64) (*model.LikedVideoList, error) {
	var rows []*likedVideoRow
	err := d.db.WithContext(ctx).Table(constants.LikeTableName+" AS l").
		Select(`l.like_id, l.created_at AS liked_at, v.video_id, v.title, v.description, v.video_url,
			v.thumbnail_url, v.duration, v.views, v.is_published, v.created_at, `+model.UploaderSelect).
		Joins("JOIN "+constants.VideoTableName+" AS v ON v.video_id = l.target_id").
		Joins("LEFT JOIN "+constants.UserTableName+" AS u ON u.user_id = v.uploader_id").
		Where("l.liker_id = ? AND l.target_type = ? AND v.is_published = ?", likerId, constants.LikeTargetVideo, true).
		Order("l.created_at DESC").
		Order("l.like_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "LikedVideos failed, liker_id: %d", likerId)
	}
	res := &model.LikedVideoList{Videos: make([]*model.LikedVideo, 0, len(rows))}
	for _, r := range rows {
		res.Videos = append(res.Videos, &model.LikedVideo{
			LikeId:  r.LikeId,
			LikedAt: r.LikedAt,
			Video: &model.VideoBrief{
				VideoId:      r.VideoId,
				Title:        r.Title,
				Description:  r.Description,
				VideoUrl:     r.VideoUrl,
				ThumbnailUrl: r.ThumbnailUrl,
				Duration:     r.Duration,
				Views:        r.Views,
				IsPublished:  r.IsPublished,
				CreatedAt:    r.CreatedAt,
				Uploader:     r.Profile(),
			},
		})
	}
	res.TotalVideos = int64(len(res.Videos))
	return res, nil
}

type likedTweetRow struct {
	LikeId     int64
	LikedAt    time.Time
	TweetId    int64
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LikesCount int64
	model.UploaderColumns
}

// LikedTweets 用户点赞过的动态
func (d *LikeDao) LikedTweets(ctx context.Context, likerId int64) (*model.LikedTweetList, error) {
	var rows []*likedTweetRow
	err := d.db.WithContext(ctx).Table(constants.LikeTableName+" AS lk").
		Select("lk.like_id, lk.created_at AS liked_at, "+tweetViewSelect).
		Joins("JOIN "+constants.TweetTableName+" AS t ON t.tweet_id = lk.target_id").
		Joins("LEFT JOIN "+constants.UserTableName+" AS u ON u.user_id = t.uploader_id").
		Where("lk.liker_id = ? AND lk.target_type = ?", likerId, constants.LikeTargetTweet).
		Order("lk.created_at DESC").
		Order("lk.like_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "LikedTweets failed, liker_id: %d", likerId)
	}
	res := &model.LikedTweetList{Tweets: make([]*model.LikedTweet, 0, len(rows))}
	for _, r := range rows {
		tr := tweetRow{
			TweetId:         r.TweetId,
			Content:         r.Content,
			CreatedAt:       r.CreatedAt,
			UpdatedAt:       r.UpdatedAt,
			LikesCount:      r.LikesCount,
			UploaderColumns: r.UploaderColumns,
		}
		res.Tweets = append(res.Tweets, &model.LikedTweet{LikeId: r.LikeId, LikedAt: r.LikedAt, Tweet: tr.view()})
	}
	res.TotalTweets = int64(len(res.Tweets))
	return res, nil
}

type likedCommentRow struct {
	LikeId     int64
	LikedAt    time.Time
	CommentId  int64
	VideoId    int64
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LikesCount int64
	model.UploaderColumns
}

// LikedComments 用户点赞过的评论
func (d *LikeDao) LikedComments(ctx context.Context, likerId int64) (*model.LikedCommentList, error) {
	var rows []*likedCommentRow
	err := d.db.WithContext(ctx).Table(constants.LikeTableName+" AS lk").
		Select("lk.like_id, lk.created_at AS liked_at, "+commentViewSelect).
		Joins("JOIN "+constants.CommentTableName+" AS c ON c.comment_id = lk.target_id").
		Joins("LEFT JOIN "+constants.UserTableName+" AS u ON u.user_id = c.uploader_id").
		Where("lk.liker_id = ? AND lk.target_type = ?", likerId, constants.LikeTargetComment).
		Order("lk.created_at DESC").
		Order("lk.like_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "LikedComments failed, liker_id: %d", likerId)
	}
	res := &model.LikedCommentList{Comments: make([]*model.LikedComment, 0, len(rows))}
	for _, r := range rows {
		cr := commentRow{
			CommentId:       r.CommentId,
			VideoId:         r.VideoId,
			Content:         r.Content,
			CreatedAt:       r.CreatedAt,
			UpdatedAt:       r.UpdatedAt,
			LikesCount:      r.LikesCount,
			UploaderColumns: r.UploaderColumns,
		}
		res.Comments = append(res.Comments, &model.LikedComment{LikeId: r.LikeId, LikedAt: r.LikedAt, Comment: cr.view()})
	}
	res.TotalComments = int64(len(res.Comments))
	return res, nil
}
