package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"VideoTube.com/cmd/model"
	"VideoTube.com/cmd/user/dal/db"
	"VideoTube.com/config"
	"VideoTube.com/pkg/constants"
	"VideoTube.com/pkg/database/dbtest"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/oss"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	svc   *UserService
	media *oss.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.New(t)
	conf := &config.Config{}
	conf.JWT.AccessSecret = "a"
	conf.JWT.RefreshSecret = "r"
	conf.JWT.AccessExpiry = time.Hour
	conf.JWT.RefreshExpiry = time.Hour
	tokens, err := jwt.NewTokenService(conf)
	if err != nil {
		t.Fatal(err)
	}
	media := oss.NewMemoryStore()
	return &fixture{db: gdb, svc: NewUserService(db.NewUserDao(gdb), tokens, media), media: media}
}

func localFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte("img"), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func kindOf(err error) errno.Kind {
	return errno.ConvertErr(err).Kind()
}

func countUsers(t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(&model.User{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	user, err := f.svc.Register(ctx, &RegisterRequest{UserName: " Alice ", Email: "a@x.io", Password: "p1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.UserName != "alice" || user.UserId == 0 {
		t.Fatalf("user = %+v", user)
	}
	if user.Password == "p1" {
		t.Fatal("password stored in plaintext")
	}

	t.Run("duplicate username conflicts without writing", func(t *testing.T) {
		_, err := f.svc.Register(ctx, &RegisterRequest{UserName: "alice", Email: "other@x.io", Password: "p2"})
		if kindOf(err) != errno.KindConflict {
			t.Fatalf("err = %v, want conflict", err)
		}
		if n := countUsers(t, f.db); n != 1 {
			t.Fatalf("users = %d, want 1", n)
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := f.svc.Register(ctx, &RegisterRequest{UserName: "bob", Email: "A@X.io", Password: "p2"})
		if kindOf(err) != errno.KindConflict {
			t.Fatalf("err = %v, want conflict", err)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := f.svc.Register(ctx, &RegisterRequest{UserName: "  ", Email: "c@x.io", Password: "p"})
		if kindOf(err) != errno.KindValidation {
			t.Fatalf("err = %v, want validation", err)
		}
	})

	t.Run("avatar upload failure writes nothing", func(t *testing.T) {
		f.media.SetUploadErr(errors.New("provider down"))
		defer f.media.SetUploadErr(nil)
		_, err := f.svc.Register(ctx, &RegisterRequest{
			UserName: "carol", Email: "c@x.io", Password: "p", AvatarPath: localFile(t, "a.png"),
		})
		if kindOf(err) != errno.KindUpstream {
			t.Fatalf("err = %v, want upstream", err)
		}
		if n := countUsers(t, f.db); n != 1 {
			t.Fatalf("users = %d, want 1", n)
		}
	})

	t.Run("with avatar", func(t *testing.T) {
		u, err := f.svc.Register(ctx, &RegisterRequest{
			UserName: "dave", Email: "d@x.io", Password: "p", AvatarPath: localFile(t, "a.png"),
		})
		if err != nil {
			t.Fatal(err)
		}
		if u.AvatarUrl == "" || !f.media.Has(u.AvatarPublicId) {
			t.Fatalf("avatar not stored: %+v", u)
		}
	})
}

func TestLoginRefreshLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.svc.Register(ctx, &RegisterRequest{UserName: "alice", Email: "a@x.io", Password: "p1"}); err != nil {
		t.Fatal(err)
	}

	if _, _, err := f.svc.Login(ctx, "alice", "", "wrong"); kindOf(err) != errno.KindAuthentication {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, _, err := f.svc.Login(ctx, "nobody", "", "p1"); kindOf(err) != errno.KindNotFound {
		t.Fatalf("unknown user err = %v", err)
	}

	user, tokens, err := f.svc.Login(ctx, "", "A@x.io", "p1")
	if err != nil {
		t.Fatalf("login by email: %v", err)
	}
	if user.UserName != "alice" || tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("login result = %+v %+v", user, tokens)
	}

	next, err := f.svc.RefreshToken(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := f.svc.RefreshToken(ctx, tokens.RefreshToken); kindOf(err) != errno.KindAuthentication {
		t.Fatalf("reused refresh token err = %v", err)
	}

	if err := f.svc.Logout(ctx, user.UserId); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.RefreshToken(ctx, next.RefreshToken); kindOf(err) != errno.KindAuthentication {
		t.Fatalf("refresh after logout err = %v", err)
	}
}

func TestChangePasswordAndAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.svc.Register(ctx, &RegisterRequest{UserName: "alice", Email: "a@x.io", Password: "p1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Register(ctx, &RegisterRequest{UserName: "bob", Email: "b@x.io", Password: "p1"}); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.ChangePassword(ctx, alice.UserId, "bad", "p2"); kindOf(err) != errno.KindValidation {
		t.Fatalf("bad old password err = %v", err)
	}
	if err := f.svc.ChangePassword(ctx, alice.UserId, "p1", "p2"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.svc.Login(ctx, "alice", "", "p2"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	if _, err := f.svc.UpdateAccount(ctx, alice.UserId, "", ""); kindOf(err) != errno.KindValidation {
		t.Fatalf("empty update err = %v", err)
	}
	if _, err := f.svc.UpdateAccount(ctx, alice.UserId, "", "b@x.io"); kindOf(err) != errno.KindConflict {
		t.Fatalf("taken email err = %v", err)
	}
	updated, err := f.svc.UpdateAccount(ctx, alice.UserId, "Alice Liddell", "")
	if err != nil {
		t.Fatal(err)
	}
	if updated.FullName != "Alice Liddell" || updated.Email != "a@x.io" {
		t.Fatalf("updated = %+v", updated)
	}
}

func TestUpdateAccountEmailClaimedConcurrently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.svc.Register(ctx, &RegisterRequest{UserName: "alice", Email: "a@x.io", Password: "p1"})
	if err != nil {
		t.Fatal(err)
	}

	// 可用性检查返回之后, 另一个账号抢先占用了同一邮箱
	var once sync.Once
	err = f.db.Callback().Query().After("gorm:query").Register("test:claim_email", func(tx *gorm.DB) {
		if tx.Statement.Table != constants.UserTableName {
			return
		}
		once.Do(func() {
			carol := &model.User{UserName: "carol", Email: "shared@x.io", FullName: "carol", Password: "h"}
			if err := f.db.Create(carol).Error; err != nil {
				t.Error(err)
			}
		})
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.UpdateAccount(ctx, alice.UserId, "", "shared@x.io"); kindOf(err) != errno.KindConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
	if err := f.db.Callback().Query().Remove("test:claim_email"); err != nil {
		t.Fatal(err)
	}
	got, err := f.svc.GetUser(ctx, alice.UserId)
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != "a@x.io" {
		t.Fatalf("email = %q", got.Email)
	}
}

func TestUpdateAvatarReplacesObject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.svc.Register(ctx, &RegisterRequest{
		UserName: "alice", Email: "a@x.io", Password: "p1", AvatarPath: localFile(t, "one.png"),
	})
	if err != nil {
		t.Fatal(err)
	}
	old := alice.AvatarPublicId

	updated, err := f.svc.UpdateAvatar(ctx, alice.UserId, localFile(t, "two.png"))
	if err != nil {
		t.Fatal(err)
	}
	if updated.AvatarPublicId == old || !f.media.Has(updated.AvatarPublicId) {
		t.Fatalf("new avatar not stored: %+v", updated)
	}
	if f.media.Has(old) {
		t.Fatal("old avatar object not deleted")
	}
}

func TestGetChannelProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, _ := f.svc.Register(ctx, &RegisterRequest{UserName: "alice", Email: "a@x.io", Password: "p1"})
	bob, _ := f.svc.Register(ctx, &RegisterRequest{UserName: "bob", Email: "b@x.io", Password: "p1"})
	if err := f.db.Create(&model.Subscription{SubscriberId: bob.UserId, ChannelId: alice.UserId}).Error; err != nil {
		t.Fatal(err)
	}

	profile, err := f.svc.GetChannelProfile(ctx, "alice", bob.UserId)
	if err != nil {
		t.Fatal(err)
	}
	if profile.SubscribersCount != 1 || profile.SubscribedToCount != 0 || !profile.IsSubscribed {
		t.Fatalf("profile = %+v", profile)
	}

	anon, err := f.svc.GetChannelProfile(ctx, "alice", 0)
	if err != nil {
		t.Fatal(err)
	}
	if anon.IsSubscribed {
		t.Fatal("anonymous requester cannot be subscribed")
	}

	if _, err := f.svc.GetChannelProfile(ctx, "nobody", 0); kindOf(err) != errno.KindNotFound {
		t.Fatalf("unknown channel err = %v", err)
	}
}
