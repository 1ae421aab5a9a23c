package service

import (
	"context"
	"sync"
	"testing"

	"VideoTube.com/cmd/model"
	userdb "VideoTube.com/cmd/user/dal/db"
	"VideoTube.com/cmd/video/dal/db"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/errno"
	"gorm.io/gorm"
)

func TestPlaylistLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewPlaylistService(db.NewPlaylistDao(f.db), db.NewVideoDao(f.db), userdb.NewUserDao(f.db))
	alice := createUser(t, f.db, "alice")
	bob := createUser(t, f.db, "bob")
	v1 := f.publish(t, alice.UserId, "one")
	v2 := f.publish(t, bob.UserId, "two")
	draft := createVideo(t, f.db, &model.Video{UploaderId: alice.UserId, Title: "draft", Description: "d", Views: 50})

	if _, err := svc.CreatePlaylist(ctx, alice.UserId, "  ", "d"); kindOf(err) != errno.KindValidation {
		t.Fatalf("blank name err = %v", err)
	}
	if _, err := svc.ListByOwner(ctx, alice.UserId); kindOf(err) != errno.KindNotFound {
		t.Fatalf("empty list err = %v", err)
	}
	if _, err := svc.ListByOwner(ctx, 424242); kindOf(err) != errno.KindNotFound {
		t.Fatalf("unknown owner err = %v", err)
	}

	pl, err := svc.CreatePlaylist(ctx, alice.UserId, "Mix", "favourites")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []int64{v2.VideoId, draft.VideoId, v1.VideoId} {
		if _, err := svc.AddVideo(ctx, pl.PlaylistId, id, alice.UserId); err != nil {
			t.Fatalf("AddVideo %d: %v", id, err)
		}
	}
	f.db.Model(&model.Video{}).Where("video_id = ?", v1.VideoId).Update("views", 3)
	f.db.Model(&model.Video{}).Where("video_id = ?", v2.VideoId).Update("views", 4)

	t.Run("only published members counted", func(t *testing.T) {
		view, err := svc.GetPlaylist(ctx, pl.PlaylistId)
		if err != nil {
			t.Fatal(err)
		}
		if view.TotalVideos != 2 || view.TotalViews != 7 {
			t.Fatalf("totals = %d/%d", view.TotalVideos, view.TotalViews)
		}
		if len(view.Videos) != 2 || view.Videos[0].VideoId != v2.VideoId || view.Videos[1].VideoId != v1.VideoId {
			t.Fatalf("members = %+v", view.Videos)
		}
		if view.Cover == nil || view.Cover.VideoId != v2.VideoId {
			t.Fatalf("cover = %+v", view.Cover)
		}
		if view.Owner == nil || view.Owner.UserName != "alice" {
			t.Fatalf("owner = %+v", view.Owner)
		}

		list, err := svc.ListByOwner(ctx, alice.UserId)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 || list[0].TotalVideos != 2 || list[0].Cover.VideoId != v2.VideoId {
			t.Fatalf("list = %+v", list)
		}
	})

	t.Run("duplicate add conflicts", func(t *testing.T) {
		if _, err := svc.AddVideo(ctx, pl.PlaylistId, v1.VideoId, alice.UserId); kindOf(err) != errno.KindConflict {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("missing video", func(t *testing.T) {
		if _, err := svc.AddVideo(ctx, pl.PlaylistId, 777, alice.UserId); kindOf(err) != errno.KindNotFound {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("other users cannot mutate", func(t *testing.T) {
		if _, err := svc.UpdatePlaylist(ctx, pl.PlaylistId, bob.UserId, "hijack", ""); kindOf(err) != errno.KindAuthorization {
			t.Fatalf("update err = %v", err)
		}
		if _, err := svc.RemoveVideo(ctx, pl.PlaylistId, v1.VideoId, bob.UserId); kindOf(err) != errno.KindAuthorization {
			t.Fatalf("remove err = %v", err)
		}
		if err := svc.DeletePlaylist(ctx, pl.PlaylistId, bob.UserId); kindOf(err) != errno.KindAuthorization {
			t.Fatalf("delete err = %v", err)
		}
		view, _ := svc.GetPlaylist(ctx, pl.PlaylistId)
		if view.Name != "Mix" || view.TotalVideos != 2 {
			t.Fatalf("playlist changed: %+v", view)
		}
	})

	t.Run("remove", func(t *testing.T) {
		view, err := svc.RemoveVideo(ctx, pl.PlaylistId, v2.VideoId, alice.UserId)
		if err != nil {
			t.Fatal(err)
		}
		if view.TotalVideos != 1 || view.Cover.VideoId != v1.VideoId {
			t.Fatalf("after remove = %+v", view)
		}
		if _, err := svc.RemoveVideo(ctx, pl.PlaylistId, v2.VideoId, alice.UserId); kindOf(err) != errno.KindNotFound {
			t.Fatalf("second remove err = %v", err)
		}
	})

	t.Run("update and delete", func(t *testing.T) {
		got, err := svc.UpdatePlaylist(ctx, pl.PlaylistId, alice.UserId, "Renamed", "")
		if err != nil {
			t.Fatal(err)
		}
		if got.Name != "Renamed" || got.Description != "favourites" {
			t.Fatalf("playlist = %+v", got)
		}
		if err := svc.DeletePlaylist(ctx, pl.PlaylistId, alice.UserId); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.GetPlaylist(ctx, pl.PlaylistId); kindOf(err) != errno.KindNotFound {
			t.Fatalf("read after delete err = %v", err)
		}
		if n := count(t, f.db, &model.PlaylistVideo{}, "playlist_id = ?", pl.PlaylistId); n != 0 {
			t.Fatalf("memberships remain: %d", n)
		}
	})
}

// deleteVideoAfterCheck 第一次读取 videos 表之后立即删除该视频
func deleteVideoAfterCheck(t *testing.T, gdb *gorm.DB, videoId int64) {
	t.Helper()
	var once sync.Once
	err := gdb.Callback().Query().After("gorm:query").Register("test:delete_video", func(tx *gorm.DB) {
		if tx.Statement.Table != constants.VideoTableName {
			return
		}
		once.Do(func() {
			if err := gdb.Exec("DELETE FROM videos WHERE video_id = ?", videoId).Error; err != nil {
				t.Error(err)
			}
		})
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = gdb.Callback().Query().Remove("test:delete_video") })
}

func TestPlaylistAddVideoDeletedAfterCheck(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewPlaylistService(db.NewPlaylistDao(f.db), db.NewVideoDao(f.db), userdb.NewUserDao(f.db))
	alice := createUser(t, f.db, "alice")
	v := createVideo(t, f.db, &model.Video{UploaderId: alice.UserId, Title: "v", Description: "d", IsPublished: true})
	pl, err := svc.CreatePlaylist(ctx, alice.UserId, "Mix", "d")
	if err != nil {
		t.Fatal(err)
	}

	deleteVideoAfterCheck(t, f.db, v.VideoId)
	if _, err := svc.AddVideo(ctx, pl.PlaylistId, v.VideoId, alice.UserId); kindOf(err) != errno.KindNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
	if n := count(t, f.db, &model.PlaylistVideo{}, "video_id = ?", v.VideoId); n != 0 {
		t.Fatalf("orphan memberships = %d", n)
	}
}
