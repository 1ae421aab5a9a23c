package db

import (
	"context"
	"strings"
	"time"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type VideoDao struct {
	db *gorm.DB
}

func NewVideoDao(db *gorm.DB) *VideoDao {
	return &VideoDao{db: db}
}

// VideoQuery 视频列表的过滤、排序与分页条件, SortField 必须来自白名单
type VideoQuery struct {
	Query              string
	MatchIds           []int64
	UseMatchIds        bool
	OwnerId            int64
	IncludeUnpublished bool
	SortField          string
	Asc                bool
	Page               int64
	PageSize           int64
}

const videoSummarySelect = `v.video_id, v.uploader_id, v.title, v.description, v.video_url, v.thumbnail_url,
	v.duration, v.views, v.is_published, v.created_at, v.updated_at, ` + model.UploaderSelect + `,
	(SELECT COUNT(*) FROM likes l WHERE l.target_type = 'video' AND l.target_id = v.video_id) AS likes_count,
	(SELECT COUNT(*) FROM comments c WHERE c.video_id = v.video_id) AS comments_count`

type videoRow struct {
	VideoId       int64
	UploaderId    int64
	Title         string
	Description   string
	VideoUrl      string
	ThumbnailUrl  string
	Duration      float64
	Views         int64
	IsPublished   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LikesCount    int64
	CommentsCount int64
	model.UploaderColumns
}

func (r *videoRow) summary() *model.VideoSummary {
	return &model.VideoSummary{
		VideoId:       r.VideoId,
		UploaderId:    r.UploaderId,
		Title:         r.Title,
		Description:   r.Description,
		VideoUrl:      r.VideoUrl,
		ThumbnailUrl:  r.ThumbnailUrl,
		Duration:      r.Duration,
		Views:         r.Views,
		IsPublished:   r.IsPublished,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Uploader:      r.Profile(),
		LikesCount:    r.LikesCount,
		CommentsCount: r.CommentsCount,
		Comments:      []*model.CommentPreview{},
	}
}

func (d *VideoDao) CreateVideo(ctx context.Context, video *model.Video) error {
	if err := d.db.WithContext(ctx).Create(video).Error; err != nil {
		return errors.Wrapf(err, "CreateVideo failed, title: %s", video.Title)
	}
	return nil
}

func (d *VideoDao) GetVideoById(ctx context.Context, videoId int64) (*model.Video, error) {
	var video model.Video
	if err := d.db.WithContext(ctx).Where("video_id = ?", videoId).First(&video).Error; err != nil {
		return nil, errors.Wrapf(err, "GetVideoById failed, video_id: %d", videoId)
	}
	return &video, nil
}

func (d *VideoDao) UpdateVideo(ctx context.Context, videoId int64, fields map[string]interface{}) error {
	err := d.db.WithContext(ctx).Model(&model.Video{}).Where("video_id = ?", videoId).Updates(fields).Error
	return errors.Wrapf(err, "UpdateVideo failed, video_id: %d", videoId)
}

func (d *VideoDao) SetPublished(ctx context.Context, videoId int64, published bool) error {
	err := d.db.WithContext(ctx).Model(&model.Video{}).Where("video_id = ?", videoId).
		Update("is_published", published).Error
	return errors.Wrapf(err, "SetPublished failed, video_id: %d", videoId)
}

// IncrViews 原子自增播放量
func (d *VideoDao) IncrViews(ctx context.Context, videoId int64) error {
	err := d.db.WithContext(ctx).Model(&model.Video{}).Where("video_id = ?", videoId).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	return errors.Wrapf(err, "IncrViews failed, video_id: %d", videoId)
}

// DeleteVideoCascade 在同一事务中删除视频的点赞、评论及评论点赞、播放列表关联,
// 然后在删除主记录之前删除外部媒体对象, 媒体删除失败或超时则整体回滚.
// 开始时对视频行加排他锁, 与评论、点赞、加入播放列表的共享锁互斥.
func (d *VideoDao) DeleteVideoCascade(ctx context.Context, videoId int64, removeMedia func(ctx context.Context) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.LockExclusive(tx, constants.VideoTableName, "video_id", videoId); err != nil {
			if errors.Is(err, database.ErrTargetMissing) {
				return errors.Wrapf(gorm.ErrRecordNotFound, "video %d", videoId)
			}
			return err
		}
		commentIds := tx.Model(&model.Comment{}).Select("comment_id").Where("video_id = ?", videoId)
		if err := tx.Where("target_type = ? AND target_id IN (?)", constants.LikeTargetComment, commentIds).
			Delete(&model.Like{}).Error; err != nil {
			return errors.Wrap(err, "delete comment likes")
		}
		if err := tx.Where("target_type = ? AND target_id = ?", constants.LikeTargetVideo, videoId).
			Delete(&model.Like{}).Error; err != nil {
			return errors.Wrap(err, "delete video likes")
		}
		if err := tx.Where("video_id = ?", videoId).Delete(&model.Comment{}).Error; err != nil {
			return errors.Wrap(err, "delete comments")
		}
		if err := tx.Where("video_id = ?", videoId).Delete(&model.PlaylistVideo{}).Error; err != nil {
			return errors.Wrap(err, "delete playlist memberships")
		}
		if removeMedia != nil {
			// 媒体删除期间持有视频行锁, 限时避免拖住其他写入
			mctx, cancel := context.WithTimeout(ctx, constants.MediaDeleteTimeout)
			err := removeMedia(mctx)
			cancel()
			if err != nil {
				return err
			}
		}
		res := tx.Where("video_id = ?", videoId).Delete(&model.Video{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete video")
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(gorm.ErrRecordNotFound, "video %d", videoId)
		}
		return nil
	})
}

func (d *VideoDao) filtered(ctx context.Context, q *VideoQuery) *gorm.DB {
	db := d.db.WithContext(ctx).Table(constants.VideoTableName + " AS v")
	if q.OwnerId != 0 {
		db = db.Where("v.uploader_id = ?", q.OwnerId)
	}
	if !q.IncludeUnpublished {
		db = db.Where("v.is_published = ?", true)
	}
	if q.UseMatchIds {
		db = db.Where("v.video_id IN ?", q.MatchIds)
	} else if q.Query != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(q.Query)) + "%"
		db = db.Where("(LOWER(v.title) LIKE ? ESCAPE '!' OR LOWER(v.description) LIKE ? ESCAPE '!')", like, like)
	}
	return db
}

// likeEscaper 关键字中的通配符按字面匹配, '!' 在 MySQL 与 SQLite 中都无需转义
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ListVideos 视频列表读模型, 返回当前页与过滤后的总数
func (d *VideoDao) ListVideos(ctx context.Context, q *VideoQuery) ([]*model.VideoSummary, int64, error) {
	if q.UseMatchIds && len(q.MatchIds) == 0 {
		return []*model.VideoSummary{}, 0, nil
	}
	var total int64
	if err := d.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "ListVideos count failed")
	}

	dir := " DESC"
	if q.Asc {
		dir = " ASC"
	}
	var rows []*videoRow
	err := d.filtered(ctx, q).
		Select(videoSummarySelect).
		Joins("LEFT JOIN " + constants.UserTableName + " AS u ON u.user_id = v.uploader_id").
		Order("v." + q.SortField + dir).
		Order("v.video_id" + dir).
		Limit(int(q.PageSize)).
		Offset(int((q.Page - 1) * q.PageSize)).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "ListVideos failed")
	}

	res := make([]*model.VideoSummary, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.summary())
	}
	return res, total, nil
}

// GetVideoDetail 单个视频读模型, isLiked 由独立的存在性查询得到
func (d *VideoDao) GetVideoDetail(ctx context.Context, videoId, requesterId int64) (*model.VideoDetail, error) {
	var rows []*videoRow
	err := d.db.WithContext(ctx).Table(constants.VideoTableName+" AS v").
		Select(videoSummarySelect).
		Joins("LEFT JOIN "+constants.UserTableName+" AS u ON u.user_id = v.uploader_id").
		Where("v.video_id = ?", videoId).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "GetVideoDetail failed, video_id: %d", videoId)
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(gorm.ErrRecordNotFound, "video %d", videoId)
	}

	detail := &model.VideoDetail{VideoSummary: *rows[0].summary()}
	if requesterId != 0 {
		var count int64
		if err := d.db.WithContext(ctx).Model(&model.Like{}).
			Where("liker_id = ? AND target_type = ? AND target_id = ?", requesterId, constants.LikeTargetVideo, videoId).
			Count(&count).Error; err != nil {
			return nil, errors.Wrapf(err, "query isLiked failed, video_id: %d", videoId)
		}
		detail.IsLiked = count > 0
	}
	return detail, nil
}

// AttachCommentPreviews 为每个视频附加最新的 limit 条评论
func (d *VideoDao) AttachCommentPreviews(ctx context.Context, videos []*model.VideoSummary, limit int) error {
	if limit <= 0 {
		return nil
	}
	for _, v := range videos {
		var comments []*model.Comment
		if err := d.db.WithContext(ctx).Where("video_id = ?", v.VideoId).
			Order("created_at DESC").Order("comment_id DESC").
			Limit(limit).
			Find(&comments).Error; err != nil {
			return errors.Wrapf(err, "load comment previews, video_id: %d", v.VideoId)
		}
		v.Comments = make([]*model.CommentPreview, 0, len(comments))
		for _, c := range comments {
			v.Comments = append(v.Comments, &model.CommentPreview{
				CommentId:  c.CommentId,
				VideoId:    c.VideoId,
				UploaderId: c.UploaderId,
				Content:    c.Content,
				CreatedAt:  c.CreatedAt,
			})
		}
	}
	return nil
}

const videoBriefSelect = `v.video_id, v.title, v.description, v.video_url, v.thumbnail_url, v.duration, v.views,
	v.is_published, v.created_at, ` + model.UploaderSelect

type videoBriefRow struct {
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

func (r *videoBriefRow) brief() *model.VideoBrief {
	return &model.VideoBrief{
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
	}
}

// VideosByIds 按传入顺序返回已发布的视频, 不存在的ID被跳过
func (d *VideoDao) VideosByIds(ctx context.Context, ids []int64) ([]*model.VideoBrief, error) {
	if len(ids) == 0 {
		return []*model.VideoBrief{}, nil
	}
	var rows []*videoBriefRow
	err := d.db.WithContext(ctx).Table(constants.VideoTableName+" AS v").
		Select(videoBriefSelect).
		Joins("LEFT JOIN "+constants.UserTableName+" AS u ON u.user_id = v.uploader_id").
		Where("v.video_id IN ? AND v.is_published = ?", ids, true).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "VideosByIds failed")
	}
	byId := make(map[int64]*model.VideoBrief, len(rows))
	for _, r := range rows {
		byId[r.VideoId] = r.brief()
	}
	res := make([]*model.VideoBrief, 0, len(rows))
	for _, id := range ids {
		if v, ok := byId[id]; ok {
			res = append(res, v)
		}
	}
	return res, nil
}
