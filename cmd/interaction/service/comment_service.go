package service

import (
	"context"
	"strings"

	"VideoTube.com/cmd/interaction/dal/db"
	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/authz"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/database"
	"VideoTube.com/pkg/errno"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CommentService struct {
	dao *db.CommentDao
}

func NewCommentService(dao *db.CommentDao) *CommentService {
	return &CommentService{dao: dao}
}

func notFoundOr(err error, notFound errno.ErrNo) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return errors.WithMessage(errno.MysqlErr, err.Error())
}

func (s *CommentService) requireVideo(ctx context.Context, videoId int64) error {
	exists, err := s.dao.VideoExists(ctx, videoId)
	if err != nil {
		return errors.WithMessage(errno.MysqlErr, err.Error())
	}
	if !exists {
		return errno.VideoNotExistErr
	}
	return nil
}

// AddComment 视频必须存在, 内容去除首尾空白后不能为空
func (s *CommentService) AddComment(ctx context.Context, videoId, userId int64, content string) (*model.CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errno.ParamErr.WithMessage("content is required")
	}
	if err := s.requireVideo(ctx, videoId); err != nil {
		return nil, err
	}
	comment := &model.Comment{VideoId: videoId, UploaderId: userId, Content: content}
	if err := s.dao.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, database.ErrTargetMissing) {
			return nil, errno.VideoNotExistErr
		}
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	view, err := s.dao.GetCommentView(ctx, comment.CommentId)
	if err != nil {
		return nil, notFoundOr(err, errno.CommentNotExistErr)
	}
	return view, nil
}

// ListVideoComments 视频评论分页, 没有评论时返回空列表
func (s *CommentService) ListVideoComments(ctx context.Context, videoId, page, pageSize int64) (*model.CommentPage, error) {
	if page < 0 || pageSize < 0 {
		return nil, errno.ParamErr.WithMessage("page and limit must be positive")
	}
	if page == 0 {
		page = constants.DefaultPage
	}
	if pageSize == 0 {
		pageSize = constants.DefaultLimit
	}
	if pageSize > constants.MaxLimit {
		pageSize = constants.MaxLimit
	}
	if err := s.requireVideo(ctx, videoId); err != nil {
		return nil, err
	}
	comments, total, err := s.dao.ListVideoComments(ctx, videoId, page, pageSize)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return &model.CommentPage{
		Comments:      comments,
		TotalComments: total,
		TotalPages:    (total + pageSize - 1) / pageSize,
		CurrentPage:   page,
		Limit:         pageSize,
	}, nil
}

func (s *CommentService) loadOwned(ctx context.Context, commentId, userId int64) (*model.Comment, error) {
	comment, err := s.dao.GetCommentById(ctx, commentId)
	if err != nil {
		return nil, notFoundOr(err, errno.CommentNotExistErr)
	}
	if err := authz.CheckOwner(userId, comment.UploaderId, "comment"); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, commentId, userId int64, content string) (*model.CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errno.ParamErr.WithMessage("content is required")
	}
	if _, err := s.loadOwned(ctx, commentId, userId); err != nil {
		return nil, err
	}
	if err := s.dao.UpdateComment(ctx, commentId, content); err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	view, err := s.dao.GetCommentView(ctx, commentId)
	if err != nil {
		return nil, notFoundOr(err, errno.CommentNotExistErr)
	}
	return view, nil
}

// DeleteComment 评论的点赞一并删除
func (s *CommentService) DeleteComment(ctx context.Context, commentId, userId int64) error {
	if _, err := s.loadOwned(ctx, commentId, userId); err != nil {
		return err
	}
	if err := s.dao.DeleteCommentCascade(ctx, commentId); err != nil {
		return notFoundOr(err, errno.CommentNotExistErr)
	}
	return nil
}
