// Package repositories defines the persistence interfaces the services
// depend on and their MongoDB implementations.
package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SuperDex7/FeatureMe-sub000/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// Page selects a window of a sorted result set.
type Page struct {
	Skip  int64
	Limit int64
}

type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	ProfilePic  *string
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]models.User, error)
	Search(ctx context.Context, query string, limit int64) ([]models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update ProfileUpdate) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	// PushNotification appends n and keeps the newest max entries in one
	// update.
	PushNotification(ctx context.Context, id primitive.ObjectID, n models.Notification, max int) error
	// PullNotifications removes the notifications of type typ sent by from.
	PullNotifications(ctx context.Context, id primitive.ObjectID, typ string, from primitive.ObjectID) error
	MarkNotificationsRead(ctx context.Context, id primitive.ObjectID) error
	ClearNotifications(ctx context.Context, id primitive.ObjectID) error
	SetPresence(ctx context.Context, id primitive.ObjectID, active bool, at time.Time) error
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	FindRecent(ctx context.Context, page Page) ([]models.Post, error)
	FindByAuthors(ctx context.Context, authors []primitive.ObjectID, page Page) ([]models.Post, error)
	CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	FindByPost(ctx context.Context, postID primitive.ObjectID, page Page) ([]models.Comment, error)
	CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
}

type LikeRepository interface {
	// Create returns ErrDuplicate if the user already likes the post.
	Create(ctx context.Context, like *models.Like) error
	// Delete reports whether a like was removed.
	Delete(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
	Exists(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
	FindByPost(ctx context.Context, postID primitive.ObjectID) ([]models.Like, error)
	CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
}

type ViewRepository interface {
	// Upsert records a view, reporting whether it was the user's first.
	Upsert(ctx context.Context, postID, userID primitive.ObjectID, at time.Time) (bool, error)
	CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
}

type DownloadRepository interface {
	Create(ctx context.Context, download *models.Download) error
	CountByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
}

type RelationRepository interface {
	// Create returns ErrDuplicate if the ordered pair already has a relation.
	Create(ctx context.Context, relation *models.Relation) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Relation, error)
	Find(ctx context.Context, follower, following primitive.ObjectID) (*models.Relation, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RelationStatus, typ models.RelationType) error
	ListByFollower(ctx context.Context, follower primitive.ObjectID, status models.RelationStatus) ([]models.Relation, error)
	ListByFollowing(ctx context.Context, following primitive.ObjectID, status models.RelationStatus) ([]models.Relation, error)
	ListByFollowers(ctx context.Context, followers []primitive.ObjectID, status models.RelationStatus) ([]models.Relation, error)
	CountByFollower(ctx context.Context, follower primitive.ObjectID, status models.RelationStatus) (int64, error)
	CountByFollowing(ctx context.Context, following primitive.ObjectID, status models.RelationStatus) (int64, error)
}

type ChatRepository interface {
	// Create returns ErrDuplicate if the participants already share a chat.
	Create(ctx context.Context, chat *models.Chat) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Chat, error)
	FindByKey(ctx context.Context, key string) (*models.Chat, error)
	FindByParticipant(ctx context.Context, userID primitive.ObjectID) ([]models.Chat, error)
	Touch(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error)
	// FindByChat returns up to limit messages older than before, newest first.
	FindByChat(ctx context.Context, chatID primitive.ObjectID, before time.Time, limit int64) ([]models.Message, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type DemoRepository interface {
	Create(ctx context.Context, demo *models.Demo) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Demo, error)
	FindByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Demo, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ResetCodeRepository interface {
	Create(ctx context.Context, code *models.PasswordResetCode) error
	DeleteByEmail(ctx context.Context, email string) error
	FindLatest(ctx context.Context, email string) (*models.PasswordResetCode, error)
	MarkUsed(ctx context.Context, id primitive.ObjectID) error
	// RecordFailedAttempt increments the wrong-guess counter of a code.
	RecordFailedAttempt(ctx context.Context, id primitive.ObjectID) error
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}
