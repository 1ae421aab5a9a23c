package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"VideoTube.com/cmd/model"
	historyredis "VideoTube.com/cmd/user/infras/redis"
	"VideoTube.com/cmd/video/dal/db"
	videoredis "VideoTube.com/cmd/video/infras/redis"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/database/dbtest"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/mq"
	"VideoTube.com/pkg/oss"
	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	svc    *VideoService
	store  *oss.MemoryStore
	events *mq.MemoryPublisher
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	gdb := dbtest.New(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := oss.NewMemoryStore()
	events := &mq.MemoryPublisher{}
	opts = append([]Option{
		WithHistory(historyredis.NewHistoryStore(rdb)),
		WithLocker(videoredis.NewVideoLocker(rdb)),
		WithPublisher(events),
		WithThumbnailer(fakeThumbnailer),
	}, opts...)
	return &fixture{
		db:     gdb,
		svc:    NewVideoService(db.NewVideoDao(gdb), store, opts...),
		store:  store,
		events: events,
	}
}

func fakeThumbnailer(_, dir string) (string, error) {
	p := filepath.Join(dir, "frame.jpg")
	return p, os.WriteFile(p, []byte("jpg"), 0o600)
}

func localFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte("bytes"), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func kindOf(err error) errno.Kind {
	return errno.ConvertErr(err).Kind()
}

func createUser(t *testing.T, gdb *gorm.DB, name string) *model.User {
	t.Helper()
	u := &model.User{UserName: name, Email: name + "@x.io", FullName: name, Password: "hash"}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatal(err)
	}
	return u
}

func createVideo(t *testing.T, gdb *gorm.DB, v *model.Video) *model.Video {
	t.Helper()
	if err := gdb.Create(v).Error; err != nil {
		t.Fatal(err)
	}
	return v
}

func count(t *testing.T, gdb *gorm.DB, m interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := gdb.Model(m)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func (f *fixture) publish(t *testing.T, uploaderId int64, title string) *model.Video {
	t.Helper()
	v, err := f.svc.Publish(context.Background(), uploaderId, &PublishRequest{
		Title:         title,
		Description:   title + " description",
		VideoPath:     localFile(t, "clip.mp4"),
		ThumbnailPath: localFile(t, "thumb.png"),
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	return v
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := createUser(t, f.db, "alice")

	v := f.publish(t, alice.UserId, "  First  ")
	if v.Title != "First" || v.UploaderId != alice.UserId || !v.IsPublished {
		t.Fatalf("video = %+v", v)
	}
	if !f.store.Has(v.VideoPublicId) || !f.store.Has(v.ThumbnailPublicId) {
		t.Fatal("media objects not stored")
	}
	if evs := f.events.Events(); len(evs) != 1 || evs[0].EventType != mq.EventVideoCreated {
		t.Fatalf("events = %+v", evs)
	}

	t.Run("generated thumbnail", func(t *testing.T) {
		v, err := f.svc.Publish(ctx, alice.UserId, &PublishRequest{
			Title: "auto", Description: "d", VideoPath: localFile(t, "clip.mp4"),
		})
		if err != nil {
			t.Fatal(err)
		}
		if v.ThumbnailPublicId == "" || !f.store.Has(v.ThumbnailPublicId) {
			t.Fatalf("thumbnail not generated: %+v", v)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		video := localFile(t, "clip.mp4")
		_, err := f.svc.Publish(ctx, alice.UserId, &PublishRequest{Title: " ", Description: "d", VideoPath: video})
		if kindOf(err) != errno.KindValidation {
			t.Fatalf("err = %v", err)
		}
		if _, err := os.Stat(video); !os.IsNotExist(err) {
			t.Fatal("local upload should be removed")
		}
	})

	t.Run("upload failure writes nothing", func(t *testing.T) {
		before, objects := count(t, f.db, &model.Video{}, ""), f.store.Len()
		f.store.SetUploadErr(errors.New("provider down"))
		defer f.store.SetUploadErr(nil)
		_, err := f.svc.Publish(ctx, alice.UserId, &PublishRequest{
			Title: "t", Description: "d", VideoPath: localFile(t, "clip.mp4"), ThumbnailPath: localFile(t, "a.png"),
		})
		if kindOf(err) != errno.KindUpstream {
			t.Fatalf("err = %v", err)
		}
		if count(t, f.db, &model.Video{}, "") != before || f.store.Len() != objects {
			t.Fatal("failed publish left state behind")
		}
	})
}

func TestListVideos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := createUser(t, f.db, "alice")
	bob := createUser(t, f.db, "bob")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cat := createVideo(t, f.db, &model.Video{UploaderId: alice.UserId, Title: "Funny CAT", Description: "d", Views: 5, Duration: 30, IsPublished: true, CreatedAt: base})
	dog := createVideo(t, f.db, &model.Video{UploaderId: alice.UserId, Title: "dog", Description: "a cat appears", Views: 1, Duration: 10, IsPublished: true, CreatedAt: base.Add(time.Hour)})
	bird := createVideo(t, f.db, &model.Video{UploaderId: bob.UserId, Title: "bird", Description: "d", Views: 9, Duration: 20, IsPublished: true, CreatedAt: base.Add(2 * time.Hour)})
	createVideo(t, f.db, &model.Video{UploaderId: alice.UserId, Title: "draft", Description: "d", IsPublished: false, CreatedAt: base.Add(3 * time.Hour)})

	for i := 0; i < 4; i++ {
		c := &model.Comment{VideoId: cat.VideoId, UploaderId: bob.UserId, Content: "c", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := f.db.Create(c).Error; err != nil {
			t.Fatal(err)
		}
	}
	if err := f.db.Create(&model.Like{LikerId: bob.UserId, TargetType: constants.LikeTargetVideo, TargetId: cat.VideoId}).Error; err != nil {
		t.Fatal(err)
	}

	ids := func(p *model.VideoPage) []int64 {
		res := make([]int64, 0, len(p.Videos))
		for _, v := range p.Videos {
			res = append(res, v.VideoId)
		}
		return res
	}
	equal := func(a, b []int64) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	tests := []struct {
		name      string
		req       ListVideosRequest
		requester int64
		want      []int64
		total     int64
		pages     int64
	}{
		{"default newest first", ListVideosRequest{}, 0, []int64{bird.VideoId, dog.VideoId, cat.VideoId}, 3, 1},
		{"second page", ListVideosRequest{Page: 2, PageSize: 2}, 0, []int64{cat.VideoId}, 3, 2},
		{"views ascending", ListVideosRequest{SortBy: "views", SortType: "asc"}, 0, []int64{dog.VideoId, cat.VideoId, bird.VideoId}, 3, 1},
		{"duration numeric asc", ListVideosRequest{SortBy: "duration", SortType: "1"}, 0, []int64{dog.VideoId, bird.VideoId, cat.VideoId}, 3, 1},
		{"query case-insensitive", ListVideosRequest{Query: "cat"}, 0, []int64{dog.VideoId, cat.VideoId}, 2, 1},
		{"owner filter hides drafts", ListVideosRequest{OwnerId: alice.UserId}, bob.UserId, []int64{dog.VideoId, cat.VideoId}, 2, 1},
		{"owner sees own drafts", ListVideosRequest{OwnerId: alice.UserId, PageSize: 1}, alice.UserId, nil, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.svc.ListVideos(ctx, &tt.req, tt.requester)
			if err != nil {
				t.Fatal(err)
			}
			if tt.want != nil && !equal(ids(page), tt.want) {
				t.Errorf("ids = %v, want %v", ids(page), tt.want)
			}
			if page.TotalVideos != tt.total || page.TotalPages != tt.pages {
				t.Errorf("total = %d pages = %d, want %d %d", page.TotalVideos, page.TotalPages, tt.total, tt.pages)
			}
		})
	}

	t.Run("read model", func(t *testing.T) {
		page, err := f.svc.ListVideos(ctx, &ListVideosRequest{SortBy: "views", SortType: "asc"}, 0)
		if err != nil {
			t.Fatal(err)
		}
		got := page.Videos[1]
		if got.VideoId != cat.VideoId || got.LikesCount != 1 || got.CommentsCount != 4 {
			t.Fatalf("summary = %+v", got)
		}
		if len(got.Comments) != constants.CommentPreviewSize {
			t.Fatalf("previews = %d", len(got.Comments))
		}
		if got.Uploader == nil || got.Uploader.UserName != "alice" {
			t.Fatalf("uploader = %+v", got.Uploader)
		}
		if page.CurrentPage != 1 || page.Limit != constants.DefaultLimit {
			t.Fatalf("envelope = %+v", page)
		}
	})

	invalid := []struct {
		name string
		req  ListVideosRequest
		kind errno.Kind
	}{
		{"beyond last page", ListVideosRequest{Page: 3, PageSize: 2}, errno.KindNotFound},
		{"no match", ListVideosRequest{Query: "zebra"}, errno.KindNotFound},
		{"negative page", ListVideosRequest{Page: -1}, errno.KindValidation},
		{"page offset overflows", ListVideosRequest{Page: 1<<62 + 1, PageSize: 4}, errno.KindNotFound},
		{"percent is literal", ListVideosRequest{Query: "%"}, errno.KindNotFound},
		{"underscore is literal", ListVideosRequest{Query: "_"}, errno.KindNotFound},
		{"unknown sort field", ListVideosRequest{SortBy: "password"}, errno.KindValidation},
		{"bad sort type", ListVideosRequest{SortType: "sideways"}, errno.KindValidation},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.ListVideos(ctx, &tt.req, 0); kindOf(err) != tt.kind {
				t.Fatalf("err = %v, want %s", err, tt.kind)
			}
		})
	}
}

type fakeIndex struct {
	ids []int64
	err error
}

func (f *fakeIndex) IndexVideo(context.Context, *model.Video) error { return nil }
func (f *fakeIndex) RemoveVideo(context.Context, int64) error       { return nil }
func (f *fakeIndex) SearchVideoIds(context.Context, string, int) ([]int64, error) {
	return f.ids, f.err
}

func TestListVideosSearchIndex(t *testing.T) {
	ctx := context.Background()
	index := &fakeIndex{}
	f := newFixture(t, WithSearchIndex(index))
	alice := createUser(t, f.db, "alice")
	a := createVideo(t, f.db, &model.Video{UploaderId: alice.UserId, Title: "alpha", Description: "d", IsPublished: true})
	b := createVideo(t, f.db, &model.Video{UploaderId: alice.UserId, Title: "beta", Description: "d", IsPublished: true})

	index.ids = []int64{b.VideoId}
	page, err := f.svc.ListVideos(ctx, &ListVideosRequest{Query: "anything"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Videos) != 1 || page.Videos[0].VideoId != b.VideoId {
		t.Fatalf("index hits not used: %+v", page.Videos)
	}

	index.err = errors.New("cluster red")
	page, err = f.svc.ListVideos(ctx, &ListVideosRequest{Query: "ALPHA"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Videos) != 1 || page.Videos[0].VideoId != a.VideoId {
		t.Fatalf("LIKE fallback not used: %+v", page.Videos)
	}
}

func TestGetVideo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := createUser(t, f.db, "alice")
	bob := createUser(t, f.db, "bob")
	carol := createUser(t, f.db, "carol")
	v := f.publish(t, alice.UserId, "clip")
	if err := f.db.Create(&model.Like{LikerId: bob.UserId, TargetType: constants.LikeTargetVideo, TargetId: v.VideoId}).Error; err != nil {
		t.Fatal(err)
	}

	t.Run("isLiked is strict per requester", func(t *testing.T) {
		for _, tc := range []struct {
			requester int64
			want      bool
		}{{bob.UserId, true}, {carol.UserId, false}, {0, false}} {
			d, err := f.svc.GetVideo(ctx, v.VideoId, tc.requester)
			if err != nil {
				t.Fatal(err)
			}
			if d.IsLiked != tc.want || d.LikesCount != 1 {
				t.Errorf("requester %d: isLiked = %v likes = %d", tc.requester, d.IsLiked, d.LikesCount)
			}
		}
	})

	t.Run("authenticated reads count views and history", func(t *testing.T) {
		var before model.Video
		f.db.First(&before, "video_id = ?", v.VideoId)
		d, err := f.svc.GetVideo(ctx, v.VideoId, carol.UserId)
		if err != nil {
			t.Fatal(err)
		}
		if d.Views != before.Views+1 {
			t.Fatalf("views = %d, want %d", d.Views, before.Views+1)
		}
		history, err := f.svc.WatchHistory(ctx, carol.UserId)
		if err != nil {
			t.Fatal(err)
		}
		if len(history) != 1 || history[0].VideoId != v.VideoId {
			t.Fatalf("history = %+v", history)
		}
	})

	t.Run("drafts are hidden from others", func(t *testing.T) {
		if _, err := f.svc.TogglePublish(ctx, v.VideoId, alice.UserId); err != nil {
			t.Fatal(err)
		}
		if _, err := f.svc.GetVideo(ctx, v.VideoId, bob.UserId); kindOf(err) != errno.KindNotFound {
			t.Fatalf("err = %v", err)
		}
		if _, err := f.svc.GetVideo(ctx, v.VideoId, alice.UserId); err != nil {
			t.Fatalf("owner read: %v", err)
		}
	})

	t.Run("missing video", func(t *testing.T) {
		if _, err := f.svc.GetVideo(ctx, 12345, 0); kindOf(err) != errno.KindNotFound {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestOwnershipGate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := createUser(t, f.db, "alice")
	bob := createUser(t, f.db, "bob")
	v := f.publish(t, alice.UserId, "mine")

	ops := map[string]func() error{
		"update": func() error {
			_, err := f.svc.UpdateVideo(ctx, v.VideoId, bob.UserId, &UpdateVideoRequest{Title: "stolen"})
			return err
		},
		"thumbnail": func() error {
			_, err := f.svc.UpdateThumbnail(ctx, v.VideoId, bob.UserId, localFile(t, "x.png"))
			return err
		},
		"toggle publish": func() error {
			_, err := f.svc.TogglePublish(ctx, v.VideoId, bob.UserId)
			return err
		},
		"delete": func() error { return f.svc.DeleteVideo(ctx, v.VideoId, bob.UserId) },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(); kindOf(err) != errno.KindAuthorization {
				t.Fatalf("err = %v, want authorization", err)
			}
			var got model.Video
			if err := f.db.First(&got, "video_id = ?", v.VideoId).Error; err != nil {
				t.Fatal(err)
			}
			if got.Title != v.Title || got.ThumbnailPublicId != v.ThumbnailPublicId || got.IsPublished != v.IsPublished {
				t.Fatalf("video changed: %+v", got)
			}
		})
	}

	t.Run("not found before permission", func(t *testing.T) {
		if err := f.svc.DeleteVideo(ctx, 999, bob.UserId); kindOf(err) != errno.KindNotFound {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestUpdateVideo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := createUser(t, f.db, "alice")
	v := f.publish(t, alice.UserId, "old")

	if _, err := f.svc.UpdateVideo(ctx, v.VideoId, alice.UserId, &UpdateVideoRequest{}); kindOf(err) != errno.KindValidation {
		t.Fatalf("empty update err = %v", err)
	}
	got, err := f.svc.UpdateVideo(ctx, v.VideoId, alice.UserId, &UpdateVideoRequest{Title: "new"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "new" || got.Description != v.Description {
		t.Fatalf("video = %+v", got)
	}

	got, err = f.svc.UpdateThumbnail(ctx, v.VideoId, alice.UserId, localFile(t, "next.png"))
	if err != nil {
		t.Fatal(err)
	}
	if got.ThumbnailPublicId == v.ThumbnailPublicId || !f.store.Has(got.ThumbnailPublicId) {
		t.Fatalf("thumbnail not replaced: %+v", got)
	}
	if f.store.Has(v.ThumbnailPublicId) {
		t.Fatal("old thumbnail object not deleted")
	}
}

func TestDeleteVideoCascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := createUser(t, f.db, "alice")
	bob := createUser(t, f.db, "bob")
	v := f.publish(t, alice.UserId, "doomed")
	keep := f.publish(t, alice.UserId, "keeper")

	for _, target := range []int64{v.VideoId, keep.VideoId} {
		c := &model.Comment{VideoId: target, UploaderId: bob.UserId, Content: "hi"}
		if err := f.db.Create(c).Error; err != nil {
			t.Fatal(err)
		}
		rows := []interface{}{
			&model.Like{LikerId: bob.UserId, TargetType: constants.LikeTargetVideo, TargetId: target},
			&model.Like{LikerId: alice.UserId, TargetType: constants.LikeTargetComment, TargetId: c.CommentId},
		}
		for _, r := range rows {
			if err := f.db.Create(r).Error; err != nil {
				t.Fatal(err)
			}
		}
	}
	pl := &model.Playlist{OwnerId: bob.UserId, Name: "p", Description: "d"}
	f.db.Create(pl)
	f.db.Create(&model.PlaylistVideo{PlaylistId: pl.PlaylistId, VideoId: v.VideoId, Position: 1})
	f.db.Create(&model.PlaylistVideo{PlaylistId: pl.PlaylistId, VideoId: keep.VideoId, Position: 2})

	t.Run("media failure keeps everything", func(t *testing.T) {
		f.store.SetDeleteErr(errors.New("provider down"))
		defer f.store.SetDeleteErr(nil)
		if err := f.svc.DeleteVideo(ctx, v.VideoId, alice.UserId); kindOf(err) != errno.KindUpstream {
			t.Fatalf("err = %v, want upstream", err)
		}
		if count(t, f.db, &model.Video{}, "video_id = ?", v.VideoId) != 1 {
			t.Fatal("video deleted despite media failure")
		}
		if count(t, f.db, &model.Comment{}, "video_id = ?", v.VideoId) != 1 {
			t.Fatal("comments deleted despite rollback")
		}
	})

	if err := f.svc.DeleteVideo(ctx, v.VideoId, alice.UserId); err != nil {
		t.Fatalf("DeleteVideo: %v", err)
	}
	if n := count(t, f.db, &model.Video{}, "video_id = ?", v.VideoId); n != 0 {
		t.Fatal("video row remains")
	}
	if n := count(t, f.db, &model.Comment{}, "video_id = ?", v.VideoId); n != 0 {
		t.Fatalf("comments remain: %d", n)
	}
	if n := count(t, f.db, &model.PlaylistVideo{}, "video_id = ?", v.VideoId); n != 0 {
		t.Fatalf("playlist memberships remain: %d", n)
	}
	if n := count(t, f.db, &model.Like{}, ""); n != 2 {
		t.Fatalf("likes = %d, want only the other video's 2", n)
	}
	if f.store.Has(v.VideoPublicId) || f.store.Has(v.ThumbnailPublicId) {
		t.Fatal("media objects remain")
	}
	if !f.store.Has(keep.VideoPublicId) {
		t.Fatal("unrelated media removed")
	}
	if _, err := f.svc.GetVideo(ctx, v.VideoId, 0); kindOf(err) != errno.KindNotFound {
		t.Fatalf("read after delete err = %v", err)
	}
	evs := f.events.Events()
	if last := evs[len(evs)-1]; last.EventType != mq.EventVideoDeleted || last.TargetID != v.VideoId {
		t.Fatalf("last event = %+v", last)
	}
}
