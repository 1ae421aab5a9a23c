package service

import (
	"context"
	"strings"

	"VideoTube.com/cmd/model"
	"VideoTube.com/cmd/video/dal/db"
	"VideoTube.com/pkg/authz"
	"VideoTube.com/pkg/database"
	"VideoTube.com/pkg/errno"
	"github.com/pkg/errors"
)

// UserChecker 用户存在性查询
type UserChecker interface {
	UserExists(ctx context.Context, userId int64) (bool, error)
}

type PlaylistService struct {
	dao    *db.PlaylistDao
	videos *db.VideoDao
	users  UserChecker
}

func NewPlaylistService(dao *db.PlaylistDao, videos *db.VideoDao, users UserChecker) *PlaylistService {
	return &PlaylistService{dao: dao, videos: videos, users: users}
}

func (s *PlaylistService) CreatePlaylist(ctx context.Context, ownerId int64, name, description string) (*model.Playlist, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return nil, errno.ParamErr.WithMessage("name and description are required")
	}
	playlist := &model.Playlist{OwnerId: ownerId, Name: name, Description: description}
	if err := s.dao.CreatePlaylist(ctx, playlist); err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return playlist, nil
}

// ListByOwner 用户不存在或没有播放列表时返回 NotFound
func (s *PlaylistService) ListByOwner(ctx context.Context, ownerId int64) ([]*model.PlaylistView, error) {
	exists, err := s.users.UserExists(ctx, ownerId)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	if !exists {
		return nil, errno.UserNotExistErr
	}
	playlists, err := s.dao.ListPlaylistsByOwner(ctx, ownerId)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	if len(playlists) == 0 {
		return nil, errno.PlaylistNotExistErr.WithMessage("No playlists found")
	}
	return playlists, nil
}

func (s *PlaylistService) GetPlaylist(ctx context.Context, playlistId int64) (*model.PlaylistView, error) {
	view, err := s.dao.GetPlaylistDetail(ctx, playlistId)
	if err != nil {
		return nil, notFoundOr(err, errno.PlaylistNotExistErr)
	}
	return view, nil
}

func (s *PlaylistService) loadOwned(ctx context.Context, playlistId, userId int64) (*model.Playlist, error) {
	playlist, err := s.dao.GetPlaylistById(ctx, playlistId)
	if err != nil {
		return nil, notFoundOr(err, errno.PlaylistNotExistErr)
	}
	if err := authz.CheckOwner(userId, playlist.OwnerId, "playlist"); err != nil {
		return nil, err
	}
	return playlist, nil
}

// UpdatePlaylist 名称或描述, 至少一项
func (s *PlaylistService) UpdatePlaylist(ctx context.Context, playlistId, userId int64, name, description string) (*model.Playlist, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" && description == "" {
		return nil, errno.ParamErr.WithMessage("At least one field is required")
	}
	if _, err := s.loadOwned(ctx, playlistId, userId); err != nil {
		return nil, err
	}
	fields := make(map[string]interface{})
	if name != "" {
		fields["name"] = name
	}
	if description != "" {
		fields["description"] = description
	}
	if err := s.dao.UpdatePlaylist(ctx, playlistId, fields); err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	playlist, err := s.dao.GetPlaylistById(ctx, playlistId)
	if err != nil {
		return nil, notFoundOr(err, errno.PlaylistNotExistErr)
	}
	return playlist, nil
}

func (s *PlaylistService) DeletePlaylist(ctx context.Context, playlistId, userId int64) error {
	if _, err := s.loadOwned(ctx, playlistId, userId); err != nil {
		return err
	}
	if err := s.dao.DeletePlaylist(ctx, playlistId); err != nil {
		return errors.WithMessage(errno.MysqlErr, err.Error())
	}
	return nil
}

// AddVideo 视频必须存在, 重复添加返回 Conflict
func (s *PlaylistService) AddVideo(ctx context.Context, playlistId, videoId, userId int64) (*model.PlaylistView, error) {
	if _, err := s.loadOwned(ctx, playlistId, userId); err != nil {
		return nil, err
	}
	if _, err := s.videos.GetVideoById(ctx, videoId); err != nil {
		return nil, notFoundOr(err, errno.VideoNotExistErr)
	}
	added, err := s.dao.AddVideo(ctx, playlistId, videoId)
	if err != nil {
		if errors.Is(err, database.ErrTargetMissing) {
			return nil, errno.VideoNotExistErr
		}
		return nil, notFoundOr(err, errno.PlaylistNotExistErr)
	}
	if !added {
		return nil, errno.ConflictErr.WithMessage("Video is already in the playlist")
	}
	return s.GetPlaylist(ctx, playlistId)
}

// RemoveVideo 视频不在列表中时返回 NotFound
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistId, videoId, userId int64) (*model.PlaylistView, error) {
	if _, err := s.loadOwned(ctx, playlistId, userId); err != nil {
		return nil, err
	}
	removed, err := s.dao.RemoveVideo(ctx, playlistId, videoId)
	if err != nil {
		return nil, errors.WithMessage(errno.MysqlErr, err.Error())
	}
	if !removed {
		return nil, errno.NotFoundErr.WithMessage("Video is not in the playlist")
	}
	return s.GetPlaylist(ctx, playlistId)
}
