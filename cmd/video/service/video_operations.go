package service

import (
	"context"
	"strings"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/authz"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/mq"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
)

// loadOwned 先确认存在, 再校验所有权
func (s *VideoService) loadOwned(ctx context.Context, videoId, userId int64) (*model.Video, error) {
	video, err := s.dao.GetVideoById(ctx, videoId)
	if err != nil {
		return nil, notFoundOr(err, errno.VideoNotExistErr)
	}
	if err := authz.CheckOwner(userId, video.UploaderId, "video"); err != nil {
		return nil, err
	}
	return video, nil
}

type UpdateVideoRequest struct {
	Title         string
	Description   string
	ThumbnailPath string
}

// UpdateVideo 部分更新标题、描述、封面, 至少一项
func (s *VideoService) UpdateVideo(ctx context.Context, videoId, userId int64, req *UpdateVideoRequest) (*model.Video, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" && description == "" && req.ThumbnailPath == "" {
		return nil, errno.ParamErr.WithMessage("At least one field is required")
	}
	video, err := s.loadOwned(ctx, videoId, userId)
	if err != nil {
		removeLocal(req.ThumbnailPath)
		return nil, err
	}

	fields := make(map[string]interface{})
	if title != "" {
		fields["title"] = title
	}
	if description != "" {
		fields["description"] = description
	}
	if len(fields) > 0 {
		if err := s.dao.UpdateVideo(ctx, videoId, fields); err != nil {
			removeLocal(req.ThumbnailPath)
			return nil, errors.WithMessage(errno.MysqlErr, err.Error())
		}
	}
	if req.ThumbnailPath != "" {
		return s.swapThumbnail(ctx, video, req.ThumbnailPath)
	}
	return s.reindex(ctx, videoId)
}

// UpdateThumbnail 上传新封面 -> 更新记录 -> 删除旧对象
func (s *VideoService) UpdateThumbnail(ctx context.Context, videoId, userId int64, localPath string) (*model.Video, error) {
	if localPath == "" {
		return nil, errno.ParamErr.WithMessage("thumbnail file is missing")
	}
	video, err := s.loadOwned(ctx, videoId, userId)
	if err != nil {
		removeLocal(localPath)
		return nil, err
	}
	return s.swapThumbnail(ctx, video, localPath)
}

func (s *VideoService) swapThumbnail(ctx context.Context, video *model.Video, localPath string) (*model.Video, error) {
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, video.VideoId)
		if err != nil {
			removeLocal(localPath)
			return nil, errors.WithMessage(errno.RedisErr, err.Error())
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				hlog.CtxWarnf(ctx, "unlock video %d failed: %v", video.VideoId, err)
			}
		}()
		// 持锁后重新读取, 拿到上一个替换者写入的对象
		if video, err = s.dao.GetVideoById(ctx, video.VideoId); err != nil {
			removeLocal(localPath)
			return nil, notFoundOr(err, errno.VideoNotExistErr)
		}
	}

	thumbnail, err := s.media.Upload(ctx, localPath, constants.MediaThumbnail)
	if err != nil {
		return nil, errors.WithMessage(errno.OssErr.WithMessage("Error while uploading thumbnail"), err.Error())
	}
	if err := s.dao.UpdateVideo(ctx, video.VideoId, map[string]interface{}{
		"thumbnail_url":       thumbnail.URL,
		"thumbnail_public_id": thumbnail.PublicID,
	}); err != nil {
		s.discard(ctx, thumbnail)
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	if video.ThumbnailPublicId != "" {
		if err := s.media.Delete(ctx, video.ThumbnailPublicId); err != nil {
			hlog.CtxWarnf(ctx, "delete old thumbnail %s failed: %v", video.ThumbnailPublicId, err)
		}
	}
	return s.reindex(ctx, video.VideoId)
}

// TogglePublish 切换发布状态
func (s *VideoService) TogglePublish(ctx context.Context, videoId, userId int64) (*model.Video, error) {
	video, err := s.loadOwned(ctx, videoId, userId)
	if err != nil {
		return nil, err
	}
	if err := s.dao.SetPublished(ctx, videoId, !video.IsPublished); err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return s.reindex(ctx, videoId)
}

// DeleteVideo 级联删除点赞、评论、播放列表关联和媒体对象, 媒体删除失败则视频保留
func (s *VideoService) DeleteVideo(ctx context.Context, videoId, userId int64) error {
	video, err := s.loadOwned(ctx, videoId, userId)
	if err != nil {
		return err
	}
	removeMedia := func(ctx context.Context) error {
		for _, id := range []string{video.VideoPublicId, video.ThumbnailPublicId} {
			if id == "" {
				continue
			}
			if err := s.media.Delete(ctx, id); err != nil {
				return errors.WithMessage(errno.OssErr.WithMessage("Error while deleting media"), err.Error())
			}
		}
		return nil
	}
	if err := s.dao.DeleteVideoCascade(ctx, videoId, removeMedia); err != nil {
		if errno.ConvertErr(err).ErrCode == errno.OssErrCode {
			return err
		}
		return notFoundOr(err, errno.VideoNotExistErr)
	}

	if s.index != nil {
		if err := s.index.RemoveVideo(ctx, videoId); err != nil {
			hlog.CtxWarnf(ctx, "remove video %d from index failed: %v", videoId, err)
		}
	}
	s.publish(ctx, mq.NewEvent(mq.EventVideoDeleted, userId, constants.LikeTargetVideo, videoId, false))
	return nil
}

func (s *VideoService) reindex(ctx context.Context, videoId int64) (*model.Video, error) {
	video, err := s.dao.GetVideoById(ctx, videoId)
	if err != nil {
		return nil, notFoundOr(err, errno.VideoNotExistErr)
	}
	if s.index != nil {
		if err := s.index.IndexVideo(ctx, video); err != nil {
			hlog.CtxWarnf(ctx, "reindex video %d failed: %v", videoId, err)
		}
	}
	return video, nil
}
