package model

import "time"

// 以下为读模型(read-model)的投影结构, 由各 dal 的查询构建器直接填充

// UserProfile 关联用户的公开资料, 单值关系始终投影为单个结构体
type UserProfile struct {
	UserId    int64  `json:"user_id,string"`
	UserName  string `json:"user_name"`
	FullName  string `json:"full_name"`
	AvatarUrl string `json:"avatar_url"`
}

type CommentPreview struct {
	CommentId  int64     `json:"comment_id,string"`
	VideoId    int64     `json:"-"`
	UploaderId int64     `json:"uploader_id,string"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type VideoSummary struct {
	VideoId       int64             `json:"video_id,string"`
	UploaderId    int64             `json:"uploader_id,string"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	VideoUrl      string            `json:"video_url"`
	ThumbnailUrl  string            `json:"thumbnail_url"`
	Duration      float64           `json:"duration"`
	Views         int64             `json:"views"`
	IsPublished   bool              `json:"is_published"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	Uploader      *UserProfile      `json:"uploader"`
	LikesCount    int64             `json:"likes_count"`
	CommentsCount int64             `json:"comments_count"`
	Comments      []*CommentPreview `json:"comments"`
}

type VideoDetail struct {
	VideoSummary
	IsLiked bool `json:"is_liked"`
}

// VideoPage 分页信封
type VideoPage struct {
	Videos      []*VideoSummary `json:"videos"`
	TotalVideos int64           `json:"total_videos"`
	TotalPages  int64           `json:"total_pages"`
	CurrentPage int64           `json:"current_page"`
	Limit       int64           `json:"limit"`
}

type VideoBrief struct {
	VideoId      int64        `json:"video_id,string"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	VideoUrl     string       `json:"video_url"`
	ThumbnailUrl string       `json:"thumbnail_url"`
	Duration     float64      `json:"duration"`
	Views        int64        `json:"views"`
	IsPublished  bool         `json:"is_published"`
	CreatedAt    time.Time    `json:"created_at"`
	Uploader     *UserProfile `json:"uploader,omitempty"`
}

type PlaylistView struct {
	PlaylistId  int64         `json:"playlist_id,string"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Owner       *UserProfile  `json:"owner"`
	TotalVideos int64         `json:"total_videos"`
	TotalViews  int64         `json:"total_views"`
	Cover       *VideoBrief   `json:"cover"`
	Videos      []*VideoBrief `json:"videos,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type SubscriptionEntry struct {
	SubscriptionId int64        `json:"subscription_id,string"`
	User           *UserProfile `json:"user"`
	CreatedAt      time.Time    `json:"created_at"`
}

type SubscriberList struct {
	Subscribers     []*SubscriptionEntry `json:"subscribers"`
	SubscriberCount int64                `json:"subscriber_count"`
}

type ChannelList struct {
	Channels     []*SubscriptionEntry `json:"channels"`
	ChannelCount int64                `json:"channel_count"`
}

type CommentView struct {
	CommentId  int64        `json:"comment_id,string"`
	VideoId    int64        `json:"video_id,string"`
	Content    string       `json:"content"`
	Author     *UserProfile `json:"author"`
	LikesCount int64        `json:"likes_count"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type CommentPage struct {
	Comments      []*CommentView `json:"comments"`
	TotalComments int64          `json:"total_comments"`
	TotalPages    int64          `json:"total_pages"`
	CurrentPage   int64          `json:"current_page"`
	Limit         int64          `json:"limit"`
}

type TweetView struct {
	TweetId    int64        `json:"tweet_id,string"`
	Content    string       `json:"content"`
	Author     *UserProfile `json:"author"`
	LikesCount int64        `json:"likes_count"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

type LikedVideo struct {
	LikeId  int64       `json:"like_id,string"`
	LikedAt time.Time   `json:"liked_at"`
	Video   *VideoBrief `json:"video"`
}

type LikedVideoList struct {
	Videos      []*LikedVideo `json:"liked_videos"`
	TotalVideos int64         `json:"total_videos"`
}

type LikedTweet struct {
	LikeId  int64      `json:"like_id,string"`
	LikedAt time.Time  `json:"liked_at"`
	Tweet   *TweetView `json:"tweet"`
}

type LikedTweetList struct {
	Tweets      []*LikedTweet `json:"liked_tweets"`
	TotalTweets int64         `json:"total_tweets"`
}

type LikedComment struct {
	LikeId  int64        `json:"like_id,string"`
	LikedAt time.Time    `json:"liked_at"`
	Comment *CommentView `json:"comment"`
}

type LikedCommentList struct {
	Comments      []*LikedComment `json:"liked_comments"`
	TotalComments int64           `json:"total_comments"`
}

// ChannelProfile 频道主页
type ChannelProfile struct {
	UserId            int64     `json:"user_id,string"`
	UserName          string    `json:"user_name"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email"`
	AvatarUrl         string    `json:"avatar_url"`
	CoverUrl          string    `json:"cover_url"`
	SubscribersCount  int64     `json:"subscribers_count"`
	SubscribedToCount int64     `json:"channels_subscribed_to_count"`
	IsSubscribed      bool      `json:"is_subscribed"`
	CreatedAt         time.Time `json:"created_at"`
}

// ToggleResult 关系切换后的状态
type ToggleResult struct {
	Present bool `json:"present"`
}
