package services

import (
	"errors"
	"testing"

	"github.com/SuperDex7/FeatureMe-sub000/models"
)

func countNotifications(t *testing.T, f *fixture, user *models.User, typ string) int {
	t.Helper()
	list, err := f.notifications.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	n := 0
	for _, item := range list {
		if item.Type == typ {
			n++
		}
	}
	return n
}

func TestToggleFollowTwiceRestoresState(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")
	bob := f.repos.SeedUser(t, "bob")

	following, err := f.relations.ToggleFollow(ctx, alice.ID, bob.ID)
	if err != nil || !following {
		t.Fatalf("first toggle = %v, %v; want true, nil", following, err)
	}
	if n := countNotifications(t, f, bob, models.NotificationFollow); n != 1 {
		t.Errorf("follow notifications after follow = %d, want 1", n)
	}
	followers, followingCount, _ := f.relations.Counts(ctx, bob.ID)
	if followers != 1 || followingCount != 0 {
		t.Errorf("bob counts = %d/%d, want 1/0", followers, followingCount)
	}

	following, err = f.relations.ToggleFollow(ctx, alice.ID, bob.ID)
	if err != nil || following {
		t.Fatalf("second toggle = %v, %v; want false, nil", following, err)
	}
	if f.repos.Relations.Len() != 0 {
		t.Errorf("relations left = %d, want 0", f.repos.Relations.Len())
	}
	if n := countNotifications(t, f, bob, models.NotificationFollow); n != 0 {
		t.Errorf("follow notifications after unfollow = %d, want 0", n)
	}
}

func TestToggleFollowSelf(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")

	if _, err := f.relations.ToggleFollow(ctx, alice.ID, alice.ID); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("err = %v, want ErrSelfFollow", err)
	}
	if f.repos.Relations.Len() != 0 {
		t.Error("self follow stored a relation")
	}
}

func TestToggleFollowUnknownUser(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")
	ghost := &models.User{}

	if _, err := f.relations.ToggleFollow(ctx, alice.ID, ghost.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFriendRequestAccept(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")
	bob := f.repos.SeedUser(t, "bob")

	req, err := f.relations.SendRequest(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	again, err := f.relations.SendRequest(ctx, alice.ID, bob.ID)
	if err != nil || again.ID != req.ID {
		t.Fatalf("repeated SendRequest = %v, %v; want the same request", again, err)
	}

	pending, err := f.relations.PendingRequests(ctx, bob.ID)
	if err != nil {
		t.Fatalf("PendingRequests: %v", err)
	}
	if len(pending) != 1 || pending[0].From.Username != "alice" {
		t.Fatalf("pending = %+v, want one request from alice", pending)
	}
	if following, _ := f.relations.IsFollowing(ctx, alice.ID, bob.ID); following {
		t.Error("pending request counts as following")
	}

	if _, err := f.relations.AcceptRequest(ctx, alice.ID, req.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("sender accepting = %v, want ErrForbidden", err)
	}
	if _, err := f.relations.AcceptRequest(ctx, bob.ID, req.ID); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}
	if following, _ := f.relations.IsFollowing(ctx, alice.ID, bob.ID); !following {
		t.Error("accepted request is not a follow")
	}
	if n := countNotifications(t, f, bob, models.NotificationFriendRequest); n != 0 {
		t.Errorf("friend request notifications left = %d, want 0", n)
	}
	if n := countNotifications(t, f, alice, models.NotificationRequestAccepted); n != 1 {
		t.Errorf("accepted notifications = %d, want 1", n)
	}
	if _, err := f.relations.SendRequest(ctx, alice.ID, bob.ID); !errors.Is(err, ErrAlreadyFollowing) {
		t.Errorf("request after accept = %v, want ErrAlreadyFollowing", err)
	}
}

func TestDeleteRequest(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")
	bob := f.repos.SeedUser(t, "bob")
	carol := f.repos.SeedUser(t, "carol")

	req, err := f.relations.SendRequest(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendRequest: %v", err)
	}
	if err := f.relations.DeleteRequest(ctx, carol.ID, req.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger delete = %v, want ErrForbidden", err)
	}
	if err := f.relations.DeleteRequest(ctx, bob.ID, req.ID); err != nil {
		t.Fatalf("DeleteRequest: %v", err)
	}
	if f.repos.Relations.Len() != 0 {
		t.Error("declined request still stored")
	}
	if n := countNotifications(t, f, bob, models.NotificationFriendRequest); n != 0 {
		t.Errorf("friend request notifications = %d, want 0", n)
	}
}

func TestBlock(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")
	bob := f.repos.SeedUser(t, "bob")

	f.relations.ToggleFollow(ctx, alice.ID, bob.ID)
	f.relations.ToggleFollow(ctx, bob.ID, alice.ID)

	if err := f.relations.Block(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("Block: %v", err)
	}
	if f.repos.Relations.Len() != 1 {
		t.Errorf("relations after block = %d, want only the block", f.repos.Relations.Len())
	}
	for _, pair := range [][2]*models.User{{alice, bob}, {bob, alice}} {
		if following, _ := f.relations.IsFollowing(ctx, pair[0].ID, pair[1].ID); following {
			t.Errorf("%s still follows %s", pair[0].Username, pair[1].Username)
		}
	}
	if _, err := f.relations.ToggleFollow(ctx, bob.ID, alice.ID); !errors.Is(err, ErrBlocked) {
		t.Errorf("follow while blocked = %v, want ErrBlocked", err)
	}
	if _, err := f.relations.SendRequest(ctx, bob.ID, alice.ID); !errors.Is(err, ErrBlocked) {
		t.Errorf("request while blocked = %v, want ErrBlocked", err)
	}
	if err := f.relations.Unblock(ctx, bob.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("unblock by the blocked user = %v, want ErrNotFound", err)
	}

	if err := f.relations.Unblock(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("Unblock: %v", err)
	}
	if blocked, _ := f.relations.IsBlocked(ctx, alice.ID, bob.ID); blocked {
		t.Error("still blocked after unblock")
	}
	if following, err := f.relations.ToggleFollow(ctx, bob.ID, alice.ID); err != nil || !following {
		t.Errorf("follow after unblock = %v, %v", following, err)
	}
}

func TestSuggestions(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")
	bob := f.repos.SeedUser(t, "bob")
	carol := f.repos.SeedUser(t, "carol")
	dave := f.repos.SeedUser(t, "dave")
	erin := f.repos.SeedUser(t, "erin")

	f.relations.ToggleFollow(ctx, alice.ID, bob.ID)
	f.relations.ToggleFollow(ctx, bob.ID, carol.ID)
	f.relations.ToggleFollow(ctx, bob.ID, dave.ID)
	f.relations.ToggleFollow(ctx, bob.ID, erin.ID)
	f.relations.ToggleFollow(ctx, bob.ID, alice.ID)
	f.relations.SendRequest(ctx, alice.ID, erin.ID)
	if err := f.relations.Block(ctx, dave.ID, alice.ID); err != nil {
		t.Fatalf("Block: %v", err)
	}

	got, err := f.relations.Suggestions(ctx, alice.ID, 0)
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if len(got) != 1 || got[0].ID != carol.ID {
		names := []string{}
		for _, u := range got {
			names = append(names, u.Username)
		}
		t.Fatalf("suggestions = %v, want [carol]", names)
	}

	none, err := f.relations.Suggestions(ctx, carol.ID, 5)
	if err != nil || len(none) != 0 {
		t.Errorf("suggestions for a user following nobody = %v, %v", none, err)
	}
}

func TestFriendsAndMutualConnections(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")
	bob := f.repos.SeedUser(t, "bob")
	carol := f.repos.SeedUser(t, "carol")

	f.relations.ToggleFollow(ctx, alice.ID, bob.ID)
	f.relations.ToggleFollow(ctx, bob.ID, alice.ID)
	f.relations.ToggleFollow(ctx, alice.ID, carol.ID)
	f.relations.ToggleFollow(ctx, bob.ID, carol.ID)

	friends, err := f.relations.Friends(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Friends: %v", err)
	}
	if len(friends) != 1 || friends[0].ID != bob.ID {
		t.Errorf("friends = %+v, want [bob]", friends)
	}

	mutual, err := f.relations.MutualConnections(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("MutualConnections: %v", err)
	}
	if len(mutual) != 1 || mutual[0].ID != carol.ID {
		t.Errorf("mutual = %+v, want [carol]", mutual)
	}

	followers, err := f.relations.Followers(ctx, carol.ID)
	if err != nil || len(followers) != 2 {
		t.Errorf("carol followers = %d, %v; want 2", len(followers), err)
	}
}
