package router

import (
	interactionHandlers "VideoTube.com/cmd/api/handlers/interaction"
	opsHandlers "VideoTube.com/cmd/api/handlers/ops"
	playlistHandlers "VideoTube.com/cmd/api/handlers/playlist"
	relationHandlers "VideoTube.com/cmd/api/handlers/relation"
	userHandlers "VideoTube.com/cmd/api/handlers/user"
	videoHandlers "VideoTube.com/cmd/api/handlers/video"
	"VideoTube.com/cmd/api/mw"
	"VideoTube.com/cmd/api/router/authfunc"
	"VideoTube.com/pkg/jwt"
	"github.com/cloudwego/hertz/pkg/route"
)

type Handlers struct {
	Tokens      *jwt.TokenService
	User        *userHandlers.Handler
	Video       *videoHandlers.Handler
	Playlist    *playlistHandlers.Handler
	Interaction *interactionHandlers.Handler
	Relation    *relationHandlers.Handler
	Ops         *opsHandlers.Handler
}

// Register 注册 /api/v1 下的全部路由
func Register(r *route.Engine, h *Handlers) {
	r.GET("/metrics", mw.MetricsHandler())

	root := r.Group("/api/v1")
	root.GET("/ping", h.Ops.Ping)
	root.GET("/healthz", h.Ops.Healthz)

	auth := authfunc.Auth(h.Tokens)
	optional := authfunc.OptionalAuth(h.Tokens)

	users := root.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/refresh-token", h.User.RefreshToken)

		secured := users.Group("", auth...)
		secured.POST("/logout", h.User.Logout)
		secured.POST("/change-password", h.User.ChangePassword)
		secured.GET("/current-user", h.User.CurrentUser)
		secured.PATCH("/updateAccount", h.User.UpdateAccount)
		secured.PATCH("/updateAvatar", h.User.UpdateAvatar)
		secured.PATCH("/cover-image", h.User.UpdateCover)
		secured.GET("/c/:username", h.User.ChannelProfile)
		secured.GET("/history", h.User.WatchHistory)
	}

	videos := root.Group("/videos")
	{
		videos.GET("", append(optional, h.Video.ListVideos)...)
		videos.GET("/:videoId", append(optional, h.Video.GetVideo)...)

		secured := videos.Group("", auth...)
		secured.POST("", h.Video.PublishVideo)
		secured.PATCH("/:videoId", h.Video.UpdateVideo)
		secured.DELETE("/:videoId", h.Video.DeleteVideo)
		secured.PATCH("/toggle/publish/:videoId", h.Video.TogglePublish)
		secured.PATCH("/thumbnail/:videoId", h.Video.UpdateThumbnail)
	}

	playlists := root.Group("/playlists")
	{
		playlists.GET("/user/:userId", h.Playlist.UserPlaylists)
		playlists.GET("/:playlistId", h.Playlist.GetPlaylist)

		secured := playlists.Group("", auth...)
		secured.POST("", h.Playlist.CreatePlaylist)
		secured.PATCH("/:playlistId", h.Playlist.UpdatePlaylist)
		secured.DELETE("/:playlistId", h.Playlist.DeletePlaylist)
		secured.PATCH("/add/:videoId/:playlistId", h.Playlist.AddVideo)
		secured.PATCH("/remove/:videoId/:playlistId", h.Playlist.RemoveVideo)
	}

	subscriptions := root.Group("/subscriptions")
	{
		subscriptions.GET("/c/:channelId", h.Relation.Subscribers)
		subscriptions.GET("/u/:subscriberId", h.Relation.Channels)
		subscriptions.POST("/c/:channelId", append(auth, h.Relation.ToggleSubscription)...)
	}

	tweets := root.Group("/tweets")
	{
		tweets.GET("/user/:userId", h.Interaction.UserTweets)

		secured := tweets.Group("", auth...)
		secured.POST("", h.Interaction.CreateTweet)
		secured.PATCH("/:tweetId", h.Interaction.UpdateTweet)
		secured.DELETE("/:tweetId", h.Interaction.DeleteTweet)
	}

	likes := root.Group("/likes", auth...)
	{
		likes.POST("/toggle/v/:videoId", h.Interaction.ToggleVideoLike)
		likes.POST("/toggle/c/:commentId", h.Interaction.ToggleCommentLike)
		likes.POST("/toggle/t/:tweetId", h.Interaction.ToggleTweetLike)
		likes.GET("/videos", h.Interaction.LikedVideos)
		likes.GET("/comments", h.Interaction.LikedComments)
		likes.GET("/tweets", h.Interaction.LikedTweets)
	}

	comments := root.Group("/comments")
	{
		comments.GET("/:videoId", h.Interaction.ListComments)

		secured := comments.Group("", auth...)
		secured.POST("/:videoId", h.Interaction.AddComment)
		secured.PATCH("/c/:commentId", h.Interaction.UpdateComment)
		secured.DELETE("/c/:commentId", h.Interaction.DeleteComment)
	}
}
