package services

import (
	"context"
	"testing"
	"time"

	"github.com/SuperDex7/FeatureMe-sub000/testutil"
)

var testSecret = []byte("test-secret")

type fixture struct {
	repos         *testutil.Repos
	notifications *NotificationService
	relations     *RelationService
	users         *UserService
	posts         *PostService
	chats         *ChatService
	demos         *DemoService
	resets        *PasswordResetService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := testutil.NewRepos()
	notifications := NewNotificationService(repos.Users)
	relations := NewRelationService(repos.Relations, repos.Users, notifications)
	return &fixture{
		repos:         repos,
		notifications: notifications,
		relations:     relations,
		users:         NewUserService(repos.Users, repos.Posts, relations, repos.Files, testSecret, time.Hour),
		posts: NewPostService(PostDeps{
			Posts:         repos.Posts,
			Comments:      repos.Comments,
			Likes:         repos.Likes,
			Views:         repos.Views,
			Downloads:     repos.Downloads,
			Users:         repos.Users,
			Relations:     relations,
			Notifications: notifications,
			Files:         repos.Files,
		}),
		chats:  NewChatService(repos.Chats, repos.Messages, repos.Users, relations),
		demos:  NewDemoService(repos.Demos, repos.Users, repos.Files),
		resets: NewPasswordResetService(repos.Users, repos.Codes, repos.Mailer),
	}
}

var ctx = context.Background()
