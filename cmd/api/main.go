package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	interactionHandlers "VideoTube.com/cmd/api/handlers/interaction"
	opsHandlers "VideoTube.com/cmd/api/handlers/ops"
	playlistHandlers "VideoTube.com/cmd/api/handlers/playlist"
	relationHandlers "VideoTube.com/cmd/api/handlers/relation"
	userHandlers "VideoTube.com/cmd/api/handlers/user"
	videoHandlers "VideoTube.com/cmd/api/handlers/video"
	"VideoTube.com/cmd/api/mw"
	"VideoTube.com/cmd/api/router"
	interactionDb "VideoTube.com/cmd/interaction/dal/db"
	interactionService "VideoTube.com/cmd/interaction/service"
	relationDb "VideoTube.com/cmd/relation/dal/db"
	relationService "VideoTube.com/cmd/relation/service"
	userDb "VideoTube.com/cmd/user/dal/db"
	userRedis "VideoTube.com/cmd/user/infras/redis"
	userService "VideoTube.com/cmd/user/service"
	videoDb "VideoTube.com/cmd/video/dal/db"
	videoRedis "VideoTube.com/cmd/video/infras/redis"
	videoService "VideoTube.com/cmd/video/service"
	"VideoTube.com/config"
	"VideoTube.com/config/pprof"
	"VideoTube.com/pkg/database"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/mq"
	"VideoTube.com/pkg/oss"
	"VideoTube.com/pkg/search"
	"VideoTube.com/pkg/tracer"
	"VideoTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/cors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var levels = map[string]hlog.Level{
	"debug": hlog.LevelDebug,
	"info":  hlog.LevelInfo,
	"warn":  hlog.LevelWarn,
	"error": hlog.LevelError,
}

func initLog(conf *config.Config) {
	level, ok := levels[strings.ToLower(conf.Server.LogLevel)]
	if !ok {
		level = hlog.LevelInfo
	}
	hlog.SetLevel(level)
	if lv, err := logrus.ParseLevel(conf.Server.LogLevel); err == nil {
		logrus.SetLevel(lv)
	}
}

func initDB(conf *config.Config) *gorm.DB {
	db, err := database.Open(conf)
	if err != nil {
		logrus.Fatalf("init mysql failed: %v", err)
	}
	if conf.Server.AutoMigrate {
		if err = database.Migrate(db); err != nil {
			logrus.Fatalf("migrate failed: %v", err)
		}
	}
	return db
}

func initMedia(ctx context.Context, conf *config.Config) oss.MediaStore {
	if !conf.Minio.Enabled {
		logrus.Warn("minio disabled, media objects are kept in memory")
		return oss.NewMemoryStore()
	}
	store, err := oss.NewMinioStore(ctx, conf)
	if err != nil {
		logrus.Fatalf("init minio failed: %v", err)
	}
	return store
}

// initPublisher rabbitmq 未启用或连接失败时退化为不投递
func initPublisher(conf *config.Config) (mq.Publisher, io.Closer) {
	if !conf.RabbitMq.Enabled {
		return mq.NopPublisher{}, nil
	}
	producer, err := mq.NewProducer(conf.RabbitMqURL(), conf.RabbitMq.Exchange)
	if err != nil {
		logrus.WithError(err).Warn("rabbitmq unavailable, domain events are dropped")
		return mq.NopPublisher{}, nil
	}
	return producer, producer
}

func videoOptions(ctx context.Context, conf *config.Config, deps ...videoService.Option) []videoService.Option {
	opts := append([]videoService.Option{videoService.WithCommentPreview(conf.Server.CommentPreview)}, deps...)
	if !conf.Elasticsearch.Enabled {
		return opts
	}
	index, err := search.NewElasticIndex(ctx, conf.Elasticsearch.URL, conf.Elasticsearch.Index)
	if err != nil {
		logrus.WithError(err).Warn("elasticsearch unavailable, falling back to sql search")
		return opts
	}
	return append(opts, videoService.WithSearchIndex(index))
}

func main() {
	ctx := context.Background()
	conf, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config failed: %v", err)
	}
	initLog(conf)
	pprof.Start(conf.Server.PprofAddr)

	if err = utils.InitSnowflake(conf.Snowflake.WorkerID, conf.Snowflake.DatacenterID); err != nil {
		logrus.Fatalf("init snowflake failed: %v", err)
	}
	if conf.Jaeger.Enabled {
		closer, err := tracer.InitJaeger(conf.Server.Name, conf.Jaeger.AgentAddr)
		if err != nil {
			logrus.WithError(err).Warn("init jaeger failed")
		} else {
			defer closer.Close()
		}
	}

	db := initDB(conf)
	rdb := userRedis.NewClient(ctx, conf)
	media := initMedia(ctx, conf)
	events, closer := initPublisher(conf)
	if closer != nil {
		defer closer.Close()
	}

	tokens, err := jwt.NewTokenService(conf)
	if err != nil {
		logrus.Fatalf("init token service failed: %v", err)
	}

	userDao := userDb.NewUserDao(db)
	videoDao := videoDb.NewVideoDao(db)
	users := userService.NewUserService(userDao, tokens, media)
	videos := videoService.NewVideoService(videoDao, media, videoOptions(ctx, conf,
		videoService.WithHistory(userRedis.NewHistoryStore(rdb)),
		videoService.WithLocker(videoRedis.NewVideoLocker(rdb)),
		videoService.WithPublisher(events),
	)...)
	playlists := videoService.NewPlaylistService(videoDb.NewPlaylistDao(db), videoDao, userDao)
	comments := interactionService.NewCommentService(interactionDb.NewCommentDao(db))
	tweets := interactionService.NewTweetService(interactionDb.NewTweetDao(db))
	likes := interactionService.NewLikeService(interactionDb.NewLikeDao(db), events)
	subscriptions := relationService.NewSubscriptionService(relationDb.NewSubscriptionDao(db), events)

	h := server.New(
		server.WithHostPorts(conf.Server.Addr),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize(conf.Server.MaxBodySize),
	)

	h.Use(recovery.Recovery(recovery.WithRecoveryHandler(
		func(ctx context.Context, c *app.RequestContext, err interface{}, stack []byte) {
			hlog.SystemLogger().CtxErrorf(ctx, "[Recovery] err=%v\nstack=%s", err, stack)
			c.JSON(consts.StatusInternalServerError, map[string]interface{}{
				"statusCode": consts.StatusInternalServerError,
				"message":    fmt.Sprintf("%v", err),
				"success":    false,
				"errors":     []string{string(errno.KindInternal)},
				"code":       errno.ServiceErrCode,
			})
		})))

	h.Use(cors.New(cors.Config{
		AllowOrigins:     conf.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))
	h.Use(mw.AccessLog(), mw.Metrics())
	if conf.Sentinel.Enabled {
		if err = mw.InitSentinel(conf.Sentinel.Threshold); err != nil {
			logrus.Fatalf("init sentinel failed: %v", err)
		}
		h.Use(mw.Sentinel())
	}

	router.Register(h.Engine, &router.Handlers{
		Tokens:      tokens,
		User:        userHandlers.NewHandler(users, videos, conf.Server.UploadDir, conf.Server.SecureCookie),
		Video:       videoHandlers.NewHandler(videos, conf.Server.UploadDir),
		Playlist:    playlistHandlers.NewHandler(playlists),
		Interaction: interactionHandlers.NewHandler(comments, tweets, likes),
		Relation:    relationHandlers.NewHandler(subscriptions),
		Ops:         opsHandlers.NewHandler(db, rdb),
	})

	h.Spin()
}
