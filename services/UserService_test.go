package services

import (
	"errors"
	"testing"

	"github.com/SuperDex7/FeatureMe-sub000/helper"
)

func signUp(t *testing.T, f *fixture, username string) {
	t.Helper()
	_, err := f.users.SignUp(ctx, SignUpInput{
		Username: username,
		Email:    username + "@Example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("SignUp %s: %v", username, err)
	}
}

func TestSignUpAndLogin(t *testing.T) {
	f := newFixture(t)
	signUp(t, f, "alice")

	user, token, err := f.users.Login(ctx, LoginInput{Login: "ALICE@example.com ", Password: "password123"})
	if err != nil {
		t.Fatalf("Login by email: %v", err)
	}
	id, err := helper.ParseToken(testSecret, token)
	if err != nil || id != user.ID {
		t.Errorf("token subject = %v, %v; want %s", id, err, user.ID.Hex())
	}
	if user.DisplayName != "alice" {
		t.Errorf("display name = %q, want the username", user.DisplayName)
	}

	if _, _, err := f.users.Login(ctx, LoginInput{Login: "alice", Password: "password123"}); err != nil {
		t.Errorf("Login by username: %v", err)
	}
	if _, _, err := f.users.Login(ctx, LoginInput{Login: "alice", Password: "wrong-password"}); !errors.Is(err, ErrInvalidLogin) {
		t.Errorf("wrong password = %v, want ErrInvalidLogin", err)
	}
	if _, _, err := f.users.Login(ctx, LoginInput{Login: "nobody", Password: "password123"}); !errors.Is(err, ErrInvalidLogin) {
		t.Errorf("unknown user = %v, want ErrInvalidLogin", err)
	}
}

func TestSignUpConflicts(t *testing.T) {
	f := newFixture(t)
	signUp(t, f, "alice")

	tests := []struct {
		name string
		in   SignUpInput
		want error
	}{
		{"email taken", SignUpInput{Username: "alice2", Email: "alice@example.com", Password: "password123"}, ErrEmailTaken},
		{"username taken", SignUpInput{Username: "alice", Email: "other@example.com", Password: "password123"}, ErrUsernameTaken},
		{"short password", SignUpInput{Username: "bob", Email: "bob@example.com", Password: "short"}, ErrInvalidInput},
		{"bad email", SignUpInput{Username: "bob", Email: "bob", Password: "password123"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.users.SignUp(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")
	bob := f.repos.SeedUser(t, "bob")
	f.relations.ToggleFollow(ctx, bob.ID, alice.ID)
	createPost(t, f, alice, "song")

	profile, err := f.users.Profile(ctx, "alice", bob.ID)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.Followers != 1 || profile.Following != 0 || profile.Posts != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/0/1", profile.Followers, profile.Following, profile.Posts)
	}
	if !profile.IsFollowing || profile.FollowsYou {
		t.Errorf("isFollowing=%v followsYou=%v, want true/false", profile.IsFollowing, profile.FollowsYou)
	}
}

func TestUpdateAvatarReplacesFile(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")

	if _, err := f.users.UpdateAvatar(ctx, alice.ID, textUpload("a.mp3", "audio/mpeg", "x")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("non image = %v, want ErrInvalidInput", err)
	}
	first, err := f.users.UpdateAvatar(ctx, alice.ID, textUpload("a.png", "image/png", "one"))
	if err != nil {
		t.Fatalf("UpdateAvatar: %v", err)
	}
	second, err := f.users.UpdateAvatar(ctx, alice.ID, textUpload("b.png", "image/png", "two"))
	if err != nil {
		t.Fatalf("UpdateAvatar: %v", err)
	}
	if f.repos.Files.Has(first.ProfilePic) {
		t.Error("previous avatar still stored")
	}
	if f.repos.Files.Len() != 1 || !f.repos.Files.Has(second.ProfilePic) {
		t.Errorf("stored files = %d, want only the new avatar", f.repos.Files.Len())
	}
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	signUp(t, f, "alice")
	user, _ := f.users.GetByUsername(ctx, "alice")

	err := f.users.ChangePassword(ctx, user.ID, ChangePasswordInput{Current: "nope-nope", New: "newpassword1"})
	if !errors.Is(err, ErrInvalidLogin) {
		t.Fatalf("wrong current = %v, want ErrInvalidLogin", err)
	}
	if err := f.users.ChangePassword(ctx, user.ID, ChangePasswordInput{Current: "password123", New: "newpassword1"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, err := f.users.Login(ctx, LoginInput{Login: "alice", Password: "newpassword1"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	f.repos.SeedUser(t, "alice")
	f.repos.SeedUser(t, "alina")
	f.repos.SeedUser(t, "bob")

	got, err := f.users.Search(ctx, "ali")
	if err != nil || len(got) != 2 {
		t.Errorf("search = %d results, %v; want 2", len(got), err)
	}
	if empty, _ := f.users.Search(ctx, "  "); len(empty) != 0 {
		t.Error("blank query returned users")
	}
}
