package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/testutil"
)

func TestNotificationsCappedAtMax(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")
	bob := f.repos.SeedUser(t, "bob")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	total := MaxNotifications + 5
	for i := 0; i < total; i++ {
		n := models.Notification{
			Type:      models.NotificationLike,
			From:      bob.ID,
			Message:   fmt.Sprintf("like %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := f.notifications.Push(ctx, alice.ID, n); err != nil {
			t.Fatalf("Push %d: %v", i, err)
		}
	}

	list, err := f.notifications.List(ctx, alice.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != MaxNotifications {
		t.Fatalf("len = %d, want %d", len(list), MaxNotifications)
	}
	if list[0].Message != fmt.Sprintf("like %d", total-1) {
		t.Errorf("first = %q, want the newest", list[0].Message)
	}
	if last := list[len(list)-1].Message; last != fmt.Sprintf("like %d", total-MaxNotifications) {
		t.Errorf("last = %q, want the oldest kept", last)
	}
	stored, _ := f.repos.Users.FindByID(ctx, alice.ID)
	if len(stored.Notifications) != MaxNotifications {
		t.Errorf("stored = %d, want %d", len(stored.Notifications), MaxNotifications)
	}
}

func TestCapNotificationsOrdersOutOfOrderInput(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []models.Notification{
		{Message: "c", CreatedAt: base.Add(3 * time.Minute)},
		{Message: "a", CreatedAt: base.Add(time.Minute)},
		{Message: "b", CreatedAt: base.Add(2 * time.Minute)},
	}
	got := models.CapNotifications(list, 2)
	if len(got) != 2 || got[0].Message != "b" || got[1].Message != "c" {
		t.Errorf("got %+v, want [b c]", got)
	}
}

func TestMarkAllReadAndClear(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")
	bob := f.repos.SeedUser(t, "bob")

	for i := 0; i < 3; i++ {
		f.notifications.Push(ctx, alice.ID, models.Notification{Type: models.NotificationComment, From: bob.ID})
	}
	if err := f.notifications.MarkAllRead(ctx, alice.ID); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	list, _ := f.notifications.List(ctx, alice.ID)
	for _, n := range list {
		if !n.Read {
			t.Fatalf("notification %s not read", n.ID.Hex())
		}
	}

	if err := f.notifications.Clear(ctx, alice.ID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if list, _ := f.notifications.List(ctx, alice.ID); len(list) != 0 {
		t.Errorf("after clear len = %d", len(list))
	}
}

func TestRemoveOnlyMatchingNotifications(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")
	bob := f.repos.SeedUser(t, "bob")
	carol := f.repos.SeedUser(t, "carol")

	f.notifications.Push(ctx, alice.ID, models.Notification{Type: models.NotificationFollow, From: bob.ID})
	f.notifications.Push(ctx, alice.ID, models.Notification{Type: models.NotificationFollow, From: carol.ID})
	f.notifications.Push(ctx, alice.ID, models.Notification{Type: models.NotificationLike, From: bob.ID})

	if err := f.notifications.Remove(ctx, alice.ID, models.NotificationFollow, bob.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	list, _ := f.notifications.List(ctx, alice.ID)
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	for _, n := range list {
		if n.Type == models.NotificationFollow && n.From == bob.ID {
			t.Error("bob's follow notification survived")
		}
	}
}

// slowUsers delays reads the way a database round-trip does, widening any
// read-modify-write window.
type slowUsers struct {
	*testutil.UserRepository
}

func (s slowUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	time.Sleep(time.Millisecond)
	return s.UserRepository.FindByID(ctx, id)
}

func TestConcurrentPushesKeepEveryNotification(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")
	bob := f.repos.SeedUser(t, "bob")
	notifications := NewNotificationService(slowUsers{f.repos.Users})

	push := func(n int) {
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := notifications.Push(ctx, alice.ID, models.Notification{Type: models.NotificationLike, From: bob.ID}); err != nil {
					t.Errorf("Push: %v", err)
				}
			}()
		}
		wg.Wait()
	}

	push(10)
	if list, _ := notifications.List(ctx, alice.ID); len(list) != 10 {
		t.Fatalf("10 concurrent pushes kept %d notifications", len(list))
	}

	push(MaxNotifications)
	stored, _ := f.repos.Users.FindByID(ctx, alice.ID)
	if len(stored.Notifications) != MaxNotifications {
		t.Errorf("stored = %d, want %d", len(stored.Notifications), MaxNotifications)
	}
}

func TestRemoveDuringConcurrentPushes(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")
	bob := f.repos.SeedUser(t, "bob")
	carol := f.repos.SeedUser(t, "carol")
	notifications := NewNotificationService(slowUsers{f.repos.Users})
	notifications.Push(ctx, alice.ID, models.Notification{Type: models.NotificationFollow, From: bob.ID})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			notifications.Push(ctx, alice.ID, models.Notification{Type: models.NotificationLike, From: carol.ID})
		}()
		go func() {
			defer wg.Done()
			notifications.Remove(ctx, alice.ID, models.NotificationFollow, bob.ID)
		}()
	}
	wg.Wait()

	list, _ := notifications.List(ctx, alice.ID)
	if len(list) != 5 {
		t.Fatalf("len = %d, want the 5 likes", len(list))
	}
	for _, n := range list {
		if n.From != carol.ID {
			t.Errorf("unexpected notification from %s", n.From.Hex())
		}
	}
}

func TestFollowNotificationsCappedAfterRepeatedFollows(t *testing.T) {
	f := newFixture(t)
	star := f.repos.SeedUser(t, "star")

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.relations.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	total := MaxNotifications + 6
	var last *models.User
	for i := 0; i < total; i++ {
		last = f.repos.SeedUser(t, fmt.Sprintf("fan%02d", i))
		if following, err := f.relations.ToggleFollow(ctx, last.ID, star.ID); err != nil || !following {
			t.Fatalf("ToggleFollow fan%02d = %v, %v", i, following, err)
		}
	}

	stored, _ := f.repos.Users.FindByID(ctx, star.ID)
	if len(stored.Notifications) != MaxNotifications {
		t.Fatalf("stored = %d, want %d", len(stored.Notifications), MaxNotifications)
	}
	list, _ := f.notifications.List(ctx, star.ID)
	if list[0].From != last.ID || list[0].Type != models.NotificationFollow {
		t.Errorf("newest = %+v, want the last follow", list[0])
	}
	if oldest := list[len(list)-1].FromUsername; oldest != fmt.Sprintf("fan%02d", total-MaxNotifications) {
		t.Errorf("oldest kept = %s", oldest)
	}
}
