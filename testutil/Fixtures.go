package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/models"
)

// Repos bundles one in-memory instance of every repository.
type Repos struct {
	Users     *UserRepository
	Posts     *PostRepository
	Comments  *CommentRepository
	Likes     *LikeRepository
	Views     *ViewRepository
	Downloads *DownloadRepository
	Relations *RelationRepository
	Chats     *ChatRepository
	Messages  *MessageRepository
	Demos     *DemoRepository
	Codes     *ResetCodeRepository
	Files     *FileStore
	Mailer    *Mailer
}

func NewRepos() *Repos {
	return &Repos{
		Users:     NewUserRepository(),
		Posts:     NewPostRepository(),
		Comments:  NewCommentRepository(),
		Likes:     NewLikeRepository(),
		Views:     NewViewRepository(),
		Downloads: NewDownloadRepository(),
		Relations: NewRelationRepository(),
		Chats:     NewChatRepository(),
		Messages:  NewMessageRepository(),
		Demos:     NewDemoRepository(),
		Codes:     NewResetCodeRepository(),
		Files:     NewFileStore(),
		Mailer:    &Mailer{},
	}
}

// SeedUser stores a user with the given username and returns it.
func (r *Repos) SeedUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:          primitive.NewObjectID(),
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
		Role:        models.RoleUser,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}
