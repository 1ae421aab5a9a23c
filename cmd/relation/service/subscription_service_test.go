package service

import (
	"context"
	"sync"
	"testing"

	"VideoTube.com/cmd/model"
	"VideoTube.com/cmd/relation/dal/db"
	"VideoTube.com/pkg/database/dbtest"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/mq"
	"gorm.io/gorm"
)

func kindOf(err error) errno.Kind {
	return errno.ConvertErr(err).Kind()
}

func createUsers(t *testing.T, gdb *gorm.DB, names ...string) []*model.User {
	t.Helper()
	users := make([]*model.User, 0, len(names))
	for _, n := range names {
		u := &model.User{UserName: n, Email: n + "@x.io", FullName: n, Password: "h"}
		if err := gdb.Create(u).Error; err != nil {
			t.Fatal(err)
		}
		users = append(users, u)
	}
	return users
}

func TestToggleSubscription(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.New(t)
	events := &mq.MemoryPublisher{}
	svc := NewSubscriptionService(db.NewSubscriptionDao(gdb), events)
	u := createUsers(t, gdb, "alice", "bob", "carol")
	alice, bob, carol := u[0], u[1], u[2]

	res, err := svc.ToggleSubscription(ctx, bob.UserId, alice.UserId)
	if err != nil || !res.Present {
		t.Fatalf("subscribe = %+v, %v", res, err)
	}
	if _, err := svc.ToggleSubscription(ctx, carol.UserId, alice.UserId); err != nil {
		t.Fatal(err)
	}

	subs, err := svc.Subscribers(ctx, alice.UserId)
	if err != nil {
		t.Fatal(err)
	}
	if subs.SubscriberCount != 2 || subs.Subscribers[0].User == nil {
		t.Fatalf("subscribers = %+v", subs)
	}

	channels, err := svc.Channels(ctx, bob.UserId)
	if err != nil {
		t.Fatal(err)
	}
	if channels.ChannelCount != 1 || channels.Channels[0].User.UserName != "alice" {
		t.Fatalf("channels = %+v", channels)
	}

	res, err = svc.ToggleSubscription(ctx, bob.UserId, alice.UserId)
	if err != nil || res.Present {
		t.Fatalf("unsubscribe = %+v, %v", res, err)
	}
	if evs := events.Events(); len(evs) != 3 || evs[2].Present || evs[2].EventType != mq.EventSubscriptionToggled {
		t.Fatalf("events = %+v", evs)
	}

	t.Run("empty lists are not errors", func(t *testing.T) {
		subs, err := svc.Subscribers(ctx, bob.UserId)
		if err != nil || subs.SubscriberCount != 0 || subs.Subscribers == nil {
			t.Fatalf("subscribers = %+v, %v", subs, err)
		}
	})

	t.Run("invalid targets", func(t *testing.T) {
		if _, err := svc.ToggleSubscription(ctx, bob.UserId, bob.UserId); kindOf(err) != errno.KindValidation {
			t.Fatalf("self subscribe err = %v", err)
		}
		if _, err := svc.ToggleSubscription(ctx, bob.UserId, 5150); kindOf(err) != errno.KindNotFound {
			t.Fatalf("missing channel err = %v", err)
		}
		if _, err := svc.Channels(ctx, 5150); kindOf(err) != errno.KindNotFound {
			t.Fatalf("missing subscriber err = %v", err)
		}
	})
}

func TestToggleSubscriptionConcurrent(t *testing.T) {
	ctx := context.Background()
	gdb := dbtest.New(t)
	svc := NewSubscriptionService(db.NewSubscriptionDao(gdb), nil)
	u := createUsers(t, gdb, "alice", "bob")

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.ToggleSubscription(ctx, u[1].UserId, u[0].UserId); err != nil {
				t.Errorf("toggle: %v", err)
			}
		}()
	}
	wg.Wait()

	var n int64
	gdb.Model(&model.Subscription{}).Count(&n)
	if n != 1 {
		t.Fatalf("5 toggles left %d rows, want 1", n)
	}
}
