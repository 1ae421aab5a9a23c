package model

import (
	"time"

	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/utils"
	"gorm.io/gorm"
)

type Video struct {
	VideoId           int64     `gorm:"column:video_id;primaryKey;autoIncrement:false" json:"video_id,string"`
	UploaderId        int64     `gorm:"column:uploader_id;not null;index:idx_videos_uploader" json:"uploader_id,string"`
	Title             string    `gorm:"column:title;size:255;not null" json:"title"`
	Description       string    `gorm:"column:description;type:text" json:"description"`
	VideoUrl          string    `gorm:"column:video_url;size:512" json:"video_url"`
	VideoPublicId     string    `gorm:"column:video_public_id;size:255" json:"-"`
	ThumbnailUrl      string    `gorm:"column:thumbnail_url;size:512" json:"thumbnail_url"`
	ThumbnailPublicId string    `gorm:"column:thumbnail_public_id;size:255" json:"-"`
	Duration          float64   `gorm:"column:duration" json:"duration"`
	Views             int64     `gorm:"column:views;not null;default:0" json:"views"`
	IsPublished       bool      `gorm:"column:is_published;not null" json:"is_published"`
	CreatedAt         time.Time `gorm:"column:created_at;index:idx_videos_created_at" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Video) TableName() string {
	return constants.VideoTableName
}

func (v *Video) BeforeCreate(*gorm.DB) error {
	if v.VideoId == 0 {
		v.VideoId = utils.NextID()
	}
	return nil
}

// Playlist 播放列表(原收藏夹)
type Playlist struct {
	PlaylistId  int64     `gorm:"column:playlist_id;primaryKey;autoIncrement:false" json:"playlist_id,string"`
	OwnerId     int64     `gorm:"column:owner_id;not null;index:idx_playlists_owner" json:"owner_id,string"`
	Name        string    `gorm:"column:name;size:255;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Playlist) TableName() string {
	return constants.PlaylistTableName
}

func (p *Playlist) BeforeCreate(*gorm.DB) error {
	if p.PlaylistId == 0 {
		p.PlaylistId = utils.NextID()
	}
	return nil
}

// PlaylistVideo 播放列表中的视频
type PlaylistVideo struct {
	Id         int64     `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	PlaylistId int64     `gorm:"column:playlist_id;not null;uniqueIndex:uk_playlist_video,priority:1" json:"playlist_id,string"`
	VideoId    int64     `gorm:"column:video_id;not null;uniqueIndex:uk_playlist_video,priority:2;index:idx_playlist_videos_video" json:"video_id,string"`
	Position   int64     `gorm:"column:position;not null" json:"position"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (PlaylistVideo) TableName() string {
	return constants.PlaylistVideoTableName
}

func (p *PlaylistVideo) BeforeCreate(*gorm.DB) error {
	if p.Id == 0 {
		p.Id = utils.NextID()
	}
	return nil
}
