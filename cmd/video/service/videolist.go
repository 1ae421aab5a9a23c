package service

import (
	"context"
	"math"
	"strings"

	"VideoTube.com/cmd/model"
	"VideoTube.com/cmd/video/dal/db"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
)

type ListVideosRequest struct {
	Query    string
	OwnerId  int64
	SortBy   string
	SortType string
	Page     int64
	PageSize int64
}

func normalizePage(page, pageSize int64) (int64, int64, error) {
	if page < 0 || pageSize < 0 {
		return 0, 0, errno.ParamErr.WithMessage("page and limit must be positive")
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
	// 偏移量会溢出 int64, 这一页不可能有数据
	if page-1 > math.MaxInt64/pageSize {
		return 0, 0, errno.NotFoundErr.WithMessage("No videos found")
	}
	return page, pageSize, nil
}

// sortAscending asc/1 升序, desc/-1/空 降序
func sortAscending(sortType string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(sortType)) {
	case "", "desc", "-1":
		return false, nil
	case "asc", "1":
		return true, nil
	}
	return false, errno.ParamErr.WithMessage("sortType must be asc or desc")
}

func (s *VideoService) buildQuery(ctx context.Context, req *ListVideosRequest, requesterId int64) (*db.VideoQuery, error) {
	page, pageSize, err := normalizePage(req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	field := "created_at"
	if req.SortBy != "" {
		var ok bool
		if field, ok = constants.VideoSortFields[req.SortBy]; !ok {
			return nil, errno.ParamErr.WithMessage("unsupported sortBy: " + req.SortBy)
		}
	}
	asc, err := sortAscending(req.SortType)
	if err != nil {
		return nil, err
	}

	q := &db.VideoQuery{
		Query:              strings.TrimSpace(req.Query),
		OwnerId:            req.OwnerId,
		IncludeUnpublished: req.OwnerId != 0 && req.OwnerId == requesterId,
		SortField:          field,
		Asc:                asc,
		Page:               page,
		PageSize:           pageSize,
	}
	if q.Query != "" && s.index != nil {
		ids, err := s.index.SearchVideoIds(ctx, q.Query, constants.SearchMaxHits)
		if err != nil {
			hlog.CtxWarnf(ctx, "search index unavailable, falling back to LIKE: %v", err)
		} else {
			q.MatchIds, q.UseMatchIds = ids, true
		}
	}
	return q, nil
}

// ListVideos 分页视频列表, 所有者可以看到自己未发布的视频
func (s *VideoService) ListVideos(ctx context.Context, req *ListVideosRequest, requesterId int64) (*model.VideoPage, error) {
	q, err := s.buildQuery(ctx, req, requesterId)
	if err != nil {
		return nil, err
	}
	videos, total, err := s.dao.ListVideos(ctx, q)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	if len(videos) == 0 {
		return nil, errno.NotFoundErr.WithMessage("No videos found")
	}
	if err := s.dao.AttachCommentPreviews(ctx, videos, s.previewSize); err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return &model.VideoPage{
		Videos:      videos,
		TotalVideos: total,
		TotalPages:  (total + q.PageSize - 1) / q.PageSize,
		CurrentPage: q.Page,
		Limit:       q.PageSize,
	}, nil
}

// GetVideo 视频详情, 登录用户访问时增加播放量并写入观看历史
func (s *VideoService) GetVideo(ctx context.Context, videoId, requesterId int64) (*model.VideoDetail, error) {
	detail, err := s.dao.GetVideoDetail(ctx, videoId, requesterId)
	if err != nil {
		return nil, notFoundOr(err, errno.VideoNotExistErr)
	}
	if !detail.IsPublished && detail.UploaderId != requesterId {
		return nil, errno.VideoNotExistErr
	}
	if err := s.dao.AttachCommentPreviews(ctx, []*model.VideoSummary{&detail.VideoSummary}, s.previewSize); err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}

	if requesterId != 0 {
		if err := s.dao.IncrViews(ctx, videoId); err != nil {
			hlog.CtxWarnf(ctx, "increment views of %d failed: %v", videoId, err)
		} else {
			detail.Views++
		}
		if s.history != nil {
			if err := s.history.Record(ctx, requesterId, videoId); err != nil {
				hlog.CtxWarnf(ctx, "record watch history failed: %v", err)
			}
		}
	}
	return detail, nil
}

// WatchHistory 最近观看在前, 已删除或下架的视频被跳过
func (s *VideoService) WatchHistory(ctx context.Context, userId int64) ([]*model.VideoBrief, error) {
	if s.history == nil {
		return []*model.VideoBrief{}, nil
	}
	ids, err := s.history.Recent(ctx, userId, constants.WatchHistorySize)
	if err != nil {
		return nil, errors.WithMessage(errno.RedisErr, err.Error())
	}
	videos, err := s.dao.VideosByIds(ctx, ids)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return videos, nil
}
