package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/mq"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
)

// PublishRequest 本地文件由 handler 落盘, 上传后删除
type PublishRequest struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

func removeLocal(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

// Publish 上传视频与封面后创建记录, 任一上传失败则清理已上传的对象且不写库
func (s *VideoService) Publish(ctx context.Context, uploaderId int64, req *PublishRequest) (*model.Video, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" || req.VideoPath == "" {
		removeLocal(req.VideoPath, req.ThumbnailPath)
		return nil, errno.ParamErr.WithMessage("title, description and video file are required")
	}

	thumbnailPath := req.ThumbnailPath
	if thumbnailPath == "" {
		// 未提供封面时截取第一帧, 必须在视频上传(删除本地文件)之前完成
		dir, err := os.MkdirTemp(filepath.Dir(req.VideoPath), "thumb-")
		if err == nil {
			defer os.RemoveAll(dir)
			thumbnailPath, err = s.thumbnailer(req.VideoPath, dir)
		}
		if err != nil {
			removeLocal(req.VideoPath)
			hlog.CtxWarnf(ctx, "generate thumbnail failed: %v", err)
			return nil, errno.ParamErr.WithMessage("thumbnail is required")
		}
	}

	video, err := s.media.Upload(ctx, req.VideoPath, constants.MediaVideo)
	if err != nil {
		removeLocal(thumbnailPath)
		return nil, errors.WithMessage(errno.OssErr.WithMessage("Error while uploading video"), err.Error())
	}
	thumbnail, err := s.media.Upload(ctx, thumbnailPath, constants.MediaThumbnail)
	if err != nil {
		s.discard(ctx, video)
		return nil, errors.WithMessage(errno.OssErr.WithMessage("Error while uploading thumbnail"), err.Error())
	}

	row := &model.Video{
		UploaderId:        uploaderId,
		Title:             title,
		Description:       description,
		VideoUrl:          video.URL,
		VideoPublicId:     video.PublicID,
		ThumbnailUrl:      thumbnail.URL,
		ThumbnailPublicId: thumbnail.PublicID,
		Duration:          video.Duration,
		IsPublished:       true,
	}
	if err := s.dao.CreateVideo(ctx, row); err != nil {
		s.discard(ctx, video, thumbnail)
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}

	if s.index != nil {
		if err := s.index.IndexVideo(ctx, row); err != nil {
			hlog.CtxWarnf(ctx, "index video %d failed: %v", row.VideoId, err)
		}
	}
	s.publish(ctx, mq.NewEvent(mq.EventVideoCreated, uploaderId, constants.LikeTargetVideo, row.VideoId, true))
	return row, nil
}
