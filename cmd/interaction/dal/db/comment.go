package db

import (
	"context"
	"math"
	"time"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CommentDao struct {
	db *gorm.DB
}

func NewCommentDao(db *gorm.DB) *CommentDao {
	return &CommentDao{db: db}
}

const commentViewSelect = `c.comment_id, c.video_id, c.content, c.created_at, c.updated_at, ` + model.UploaderSelect + `,
	(SELECT COUNT(*) FROM likes l WHERE l.target_type = 'comment' AND l.target_id = c.comment_id) AS likes_count`

type commentRow struct {
	CommentId  int64
	VideoId    int64
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LikesCount int64
	model.UploaderColumns
}

func (r *commentRow) view() *model.CommentView {
	return &model.CommentView{
		CommentId:  r.CommentId,
		VideoId:    r.VideoId,
		Content:    r.Content,
		Author:     r.Profile(),
		LikesCount: r.LikesCount,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// CreateComment 视频在事务内已被删除时返回 database.ErrTargetMissing
func (d *CommentDao) CreateComment(ctx context.Context, comment *model.Comment) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.LockShared(tx, constants.VideoTableName, "video_id", comment.VideoId); err != nil {
			return err
		}
		return tx.Create(comment).Error
	})
	if err != nil {
		return errors.WithMessagef(err, "CreateComment failed, video_id: %d", comment.VideoId)
	}
	return nil
}

func (d *CommentDao) GetCommentById(ctx context.Context, commentId int64) (*model.Comment, error) {
	var comment model.Comment
	if err := d.db.WithContext(ctx).Where("comment_id = ?", commentId).First(&comment).Error; err != nil {
		return nil, errors.Wrapf(err, "GetCommentById failed, comment_id: %d", commentId)
	}
	return &comment, nil
}

func (d *CommentDao) UpdateComment(ctx context.Context, commentId int64, content string) error {
	err := d.db.WithContext(ctx).Model(&model.Comment{}).Where("comment_id = ?", commentId).
		Update("content", content).Error
	return errors.Wrapf(err, "UpdateComment failed, comment_id: %d", commentId)
}

// DeleteCommentCascade 同一事务中删除评论及其点赞
func (d *CommentDao) DeleteCommentCascade(ctx context.Context, commentId int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.LockExclusive(tx, constants.CommentTableName, "comment_id", commentId); err != nil {
			if errors.Is(err, database.ErrTargetMissing) {
				return errors.Wrapf(gorm.ErrRecordNotFound, "comment %d", commentId)
			}
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", constants.LikeTargetComment, commentId).
			Delete(&model.Like{}).Error; err != nil {
			return errors.Wrap(err, "delete comment likes")
		}
		res := tx.Where("comment_id = ?", commentId).Delete(&model.Comment{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete comment")
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(gorm.ErrRecordNotFound, "comment %d", commentId)
		}
		return nil
	})
}

// GetCommentView 单条评论读模型
func (d *CommentDao) GetCommentView(ctx context.Context, commentId int64) (*model.CommentView, error) {
	var rows []*commentRow
	err := d.db.WithContext(ctx).Table(constants.CommentTableName+" AS c").
		Select(commentViewSelect).
		Joins("LEFT JOIN "+constants.UserTableName+" AS u ON u.user_id = c.uploader_id").
		Where("c.comment_id = ?", commentId).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "GetCommentView failed, comment_id: %d", commentId)
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(gorm.ErrRecordNotFound, "comment %d", commentId)
	}
	return rows[0].view(), nil
}

// ListVideoComments 视频评论分页, 最新在前
func (d *CommentDao) ListVideoComments(ctx context.Context, videoId, page, pageSize int64) ([]*model.CommentView, int64, error) {
	var total int64
	if err := d.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoId).
		Count(&total).Error; err != nil {
		return nil, 0, errors.Wrapf(err, "count comments, video_id: %d", videoId)
	}

	// 偏移量溢出 int64 的页码必然越界
	if page < 1 || pageSize < 1 || page-1 > math.MaxInt64/pageSize {
		return []*model.CommentView{}, total, nil
	}

	var rows []*commentRow
	err := d.db.WithContext(ctx).Table(constants.CommentTableName+" AS c").
		Select(commentViewSelect).
		Joins("LEFT JOIN "+constants.UserTableName+" AS u ON u.user_id = c.uploader_id").
		Where("c.video_id = ?", videoId).
		Order("c.created_at DESC").
		Order("c.comment_id DESC").
		Limit(int(pageSize)).
		Offset(int((page - 1) * pageSize)).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, errors.Wrapf(err, "ListVideoComments failed, video_id: %d", videoId)
	}
	res := make([]*model.CommentView, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.view())
	}
	return res, total, nil
}

// VideoExists 评论与点赞前确认视频存在
func (d *CommentDao) VideoExists(ctx context.Context, videoId int64) (bool, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&model.Video{}).Where("video_id = ?", videoId).Count(&n).Error
	if err != nil {
		return false, errors.Wrapf(err, "VideoExists failed, video_id: %d", videoId)
	}
	return n > 0, nil
}
