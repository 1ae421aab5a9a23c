package db

import (
	"context"
	"time"

	"VideoTube.com/cmd/model"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaylistDao struct {
	db *gorm.DB
}

func NewPlaylistDao(db *gorm.DB) *PlaylistDao {
	return &PlaylistDao{db: db}
}

func (d *PlaylistDao) CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	if err := d.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return errors.Wrapf(err, "CreatePlaylist failed, name: %s", playlist.Name)
	}
	return nil
}

func (d *PlaylistDao) GetPlaylistById(ctx context.Context, playlistId int64) (*model.Playlist, error) {
	var playlist model.Playlist
	if err := d.db.WithContext(ctx).Where("playlist_id = ?", playlistId).First(&playlist).Error; err != nil {
		return nil, errors.Wrapf(err, "GetPlaylistById failed, playlist_id: %d", playlistId)
	}
	return &playlist, nil
}

func (d *PlaylistDao) UpdatePlaylist(ctx context.Context, playlistId int64, fields map[string]interface{}) error {
	err := d.db.WithContext(ctx).Model(&model.Playlist{}).Where("playlist_id = ?", playlistId).Updates(fields).Error
	return errors.Wrapf(err, "UpdatePlaylist failed, playlist_id: %d", playlistId)
}

// DeletePlaylist 删除播放列表及其视频关联
func (d *PlaylistDao) DeletePlaylist(ctx context.Context, playlistId int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.LockExclusive(tx, constants.PlaylistTableName, "playlist_id", playlistId); err != nil {
			if errors.Is(err, database.ErrTargetMissing) {
				return errors.Wrapf(gorm.ErrRecordNotFound, "playlist %d", playlistId)
			}
			return err
		}
		if err := tx.Where("playlist_id = ?", playlistId).Delete(&model.PlaylistVideo{}).Error; err != nil {
			return errors.Wrap(err, "delete playlist memberships")
		}
		if err := tx.Where("playlist_id = ?", playlistId).Delete(&model.Playlist{}).Error; err != nil {
			return errors.Wrap(err, "delete playlist")
		}
		return nil
	})
}

// AddVideo 追加到列表末尾, 已存在时返回 false.
// 列表在事务内已被删除时返回 gorm.ErrRecordNotFound, 视频已被删除时返回 database.ErrTargetMissing.
func (d *PlaylistDao) AddVideo(ctx context.Context, playlistId, videoId int64) (bool, error) {
	var added bool
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := database.LockShared(tx, constants.PlaylistTableName, "playlist_id", playlistId); err != nil {
			if errors.Is(err, database.ErrTargetMissing) {
				return errors.Wrapf(gorm.ErrRecordNotFound, "playlist %d", playlistId)
			}
			return err
		}
		if err := database.LockShared(tx, constants.VideoTableName, "video_id", videoId); err != nil {
			return err
		}
		var last int64
		if err := tx.Model(&model.PlaylistVideo{}).Where("playlist_id = ?", playlistId).
			Select("COALESCE(MAX(position), 0)").Scan(&last).Error; err != nil {
			return errors.Wrap(err, "query last position")
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.PlaylistVideo{
			PlaylistId: playlistId,
			VideoId:    videoId,
			Position:   last + 1,
		})
		if res.Error != nil {
			return errors.Wrap(res.Error, "insert playlist video")
		}
		added = res.RowsAffected == 1
		return nil
	})
	if err != nil {
		return false, errors.WithMessagef(err, "AddVideo failed, playlist_id: %d, video_id: %d", playlistId, videoId)
	}
	return added, nil
}

// RemoveVideo 不在列表中时返回 false
func (d *PlaylistDao) RemoveVideo(ctx context.Context, playlistId, videoId int64) (bool, error) {
	res := d.db.WithContext(ctx).Where("playlist_id = ? AND video_id = ?", playlistId, videoId).
		Delete(&model.PlaylistVideo{})
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "RemoveVideo failed, playlist_id: %d, video_id: %d", playlistId, videoId)
	}
	return res.RowsAffected > 0, nil
}

const playlistSelect = `p.playlist_id, p.name, p.description, p.created_at, p.updated_at, ` + model.UploaderSelect + `,
	(SELECT COUNT(*) FROM playlist_videos pv JOIN videos v ON v.video_id = pv.video_id
		WHERE pv.playlist_id = p.playlist_id AND v.is_published = ?) AS total_videos,
	(SELECT COALESCE(SUM(v.views), 0) FROM playlist_videos pv JOIN videos v ON v.video_id = pv.video_id
		WHERE pv.playlist_id = p.playlist_id AND v.is_published = ?) AS total_views`

type playlistRow struct {
	PlaylistId  int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	TotalVideos int64
	TotalViews  int64
	model.UploaderColumns
}

type memberRow struct {
	PlaylistId   int64
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

func (r *memberRow) brief() *model.VideoBrief {
	row := videoBriefRow{
		VideoId:         r.VideoId,
		Title:           r.Title,
		Description:     r.Description,
		VideoUrl:        r.VideoUrl,
		ThumbnailUrl:    r.ThumbnailUrl,
		Duration:        r.Duration,
		Views:           r.Views,
		IsPublished:     r.IsPublished,
		CreatedAt:       r.CreatedAt,
		UploaderColumns: r.UploaderColumns,
	}
	return row.brief()
}

func (d *PlaylistDao) playlists(ctx context.Context, where string, arg int64) ([]*model.PlaylistView, error) {
	var rows []*playlistRow
	err := d.db.WithContext(ctx).Table(constants.PlaylistTableName+" AS p").
		Select(playlistSelect, true, true).
		Joins("LEFT JOIN "+constants.UserTableName+" AS u ON u.user_id = p.owner_id").
		Where(where, arg).
		Order("p.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	views := make([]*model.PlaylistView, 0, len(rows))
	for _, r := range rows {
		views = append(views, &model.PlaylistView{
			PlaylistId:  r.PlaylistId,
			Name:        r.Name,
			Description: r.Description,
			Owner:       r.Profile(),
			TotalVideos: r.TotalVideos,
			TotalViews:  r.TotalViews,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return views, nil
}

// members 已发布的成员视频, 按加入顺序
func (d *PlaylistDao) members(ctx context.Context, playlistIds []int64) (map[int64][]*model.VideoBrief, error) {
	res := make(map[int64][]*model.VideoBrief, len(playlistIds))
	if len(playlistIds) == 0 {
		return res, nil
	}
	var rows []*memberRow
	err := d.db.WithContext(ctx).Table(constants.PlaylistVideoTableName+" AS pv").
		Select("pv.playlist_id, "+videoBriefSelect).
		Joins("JOIN "+constants.VideoTableName+" AS v ON v.video_id = pv.video_id").
		Joins("LEFT JOIN "+constants.UserTableName+" AS u ON u.user_id = v.uploader_id").
		Where("pv.playlist_id IN ? AND v.is_published = ?", playlistIds, true).
		Order("pv.playlist_id").
		Order("pv.position").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		res[r.PlaylistId] = append(res[r.PlaylistId], r.brief())
	}
	return res, nil
}

// ListPlaylistsByOwner 用户的播放列表读模型, 封面为第一个已发布视频
func (d *PlaylistDao) ListPlaylistsByOwner(ctx context.Context, ownerId int64) ([]*model.PlaylistView, error) {
	views, err := d.playlists(ctx, "p.owner_id = ?", ownerId)
	if err != nil {
		return nil, errors.Wrapf(err, "ListPlaylistsByOwner failed, owner_id: %d", ownerId)
	}
	ids := make([]int64, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.PlaylistId)
	}
	members, err := d.members(ctx, ids)
	if err != nil {
		return nil, errors.Wrapf(err, "load playlist members, owner_id: %d", ownerId)
	}
	for _, v := range views {
		if m := members[v.PlaylistId]; len(m) > 0 {
			v.Cover = m[0]
		}
	}
	return views, nil
}

// GetPlaylistDetail 单个播放列表读模型, 包含有序的成员视频
func (d *PlaylistDao) GetPlaylistDetail(ctx context.Context, playlistId int64) (*model.PlaylistView, error) {
	views, err := d.playlists(ctx, "p.playlist_id = ?", playlistId)
	if err != nil {
		return nil, errors.Wrapf(err, "GetPlaylistDetail failed, playlist_id: %d", playlistId)
	}
	if len(views) == 0 {
		return nil, errors.Wrapf(gorm.ErrRecordNotFound, "playlist %d", playlistId)
	}
	members, err := d.members(ctx, []int64{playlistId})
	if err != nil {
		return nil, errors.Wrapf(err, "load playlist members, playlist_id: %d", playlistId)
	}
	view := views[0]
	view.Videos = members[playlistId]
	if view.Videos == nil {
		view.Videos = []*model.VideoBrief{}
	}
	if len(view.Videos) > 0 {
		view.Cover = view.Videos[0]
	}
	return view, nil
}
