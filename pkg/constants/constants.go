package constants

import "time"

const (
	DataFormate = "2006-01-02 15:04:05"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// ToggleMaxAttempts 关系切换在并发冲突下的最大重试次数
	ToggleMaxAttempts = 5

	// CommentPreviewSize 视频列表中每个视频附带的评论条数
	CommentPreviewSize = 3

	WatchHistorySize = 100

	SearchMaxHits = 1000

	ThumbnailLockExpiry = 30 * time.Second

	// MediaDeleteTimeout 删除视频时媒体对象删除的时限, 期间视频行处于锁定状态
	MediaDeleteTimeout = 15 * time.Second
)

const (
	UserTableName          = "users"
	VideoTableName         = "videos"
	TweetTableName         = "tweets"
	CommentTableName       = "comments"
	LikeTableName          = "likes"
	SubscriptionTableName  = "subscriptions"
	PlaylistTableName      = "playlists"
	PlaylistVideoTableName = "playlist_videos"
)

// 点赞目标类型
const (
	LikeTargetVideo   = "video"
	LikeTargetComment = "comment"
	LikeTargetTweet   = "tweet"

	// SubscriptionTarget 订阅事件的目标类型
	SubscriptionTarget = "channel"
)

// 可排序字段白名单
var VideoSortFields = map[string]string{
	"createdAt":  "created_at",
	"created_at": "created_at",
	"views":      "views",
	"duration":   "duration",
	"title":      "title",
}

// 媒体对象类型
const (
	MediaVideo     = "video"
	MediaThumbnail = "thumbnail"
	MediaAvatar    = "avatar"
	MediaCover     = "cover"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)
