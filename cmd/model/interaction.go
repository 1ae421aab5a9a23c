package model

import (
	"time"

	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/utils"
	"gorm.io/gorm"
)

type Comment struct {
	CommentId  int64     `gorm:"column:comment_id;primaryKey;autoIncrement:false" json:"comment_id,string"`
	VideoId    int64     `gorm:"column:video_id;not null;index:idx_comments_video" json:"video_id,string"`
	UploaderId int64     `gorm:"column:uploader_id;not null;index:idx_comments_uploader" json:"uploader_id,string"`
	Content    string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Comment) TableName() string {
	return constants.CommentTableName
}

func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.CommentId == 0 {
		c.CommentId = utils.NextID()
	}
	return nil
}

type Tweet struct {
	TweetId    int64     `gorm:"column:tweet_id;primaryKey;autoIncrement:false" json:"tweet_id,string"`
	UploaderId int64     `gorm:"column:uploader_id;not null;index:idx_tweets_uploader" json:"uploader_id,string"`
	Content    string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Tweet) TableName() string {
	return constants.TweetTableName
}

func (t *Tweet) BeforeCreate(*gorm.DB) error {
	if t.TweetId == 0 {
		t.TweetId = utils.NextID()
	}
	return nil
}

// Like 视频/评论/动态 统一的点赞表, (liker_id, target_type, target_id) 唯一
type Like struct {
	LikeId     int64     `gorm:"column:like_id;primaryKey;autoIncrement:false" json:"like_id,string"`
	LikerId    int64     `gorm:"column:liker_id;not null;uniqueIndex:uk_like_target,priority:1" json:"liker_id,string"`
	TargetType string    `gorm:"column:target_type;size:16;not null;uniqueIndex:uk_like_target,priority:2;index:idx_likes_target,priority:1" json:"target_type"`
	TargetId   int64     `gorm:"column:target_id;not null;uniqueIndex:uk_like_target,priority:3;index:idx_likes_target,priority:2" json:"target_id,string"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Like) TableName() string {
	return constants.LikeTableName
}

func (l *Like) BeforeCreate(*gorm.DB) error {
	if l.LikeId == 0 {
		l.LikeId = utils.NextID()
	}
	return nil
}
