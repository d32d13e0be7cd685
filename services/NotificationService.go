package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/repositories"
)

// MaxNotifications is how many notifications a user keeps.
const MaxNotifications = 30

// NotificationService maintains the notification list embedded in each user
// document. Every change is a single update on that document, so concurrent
// writers never overwrite each other's entries.
type NotificationService struct {
	users repositories.UserRepository
	now   func() time.Time
}

func NewNotificationService(users repositories.UserRepository) *NotificationService {
	return &NotificationService{users: users, now: time.Now}
}

// Push adds n to the user's list, dropping the oldest entries beyond
// MaxNotifications.
func (s *NotificationService) Push(ctx context.Context, userID primitive.ObjectID, n models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	return s.users.PushNotification(ctx, userID, n, MaxNotifications)
}

// Remove drops the notifications of type typ sent by from.
func (s *NotificationService) Remove(ctx context.Context, userID primitive.ObjectID, typ string, from primitive.ObjectID) error {
	return s.users.PullNotifications(ctx, userID, typ, from)
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	list := models.CapNotifications(append([]models.Notification(nil), user.Notifications...), MaxNotifications)
	out := make([]models.Notification, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.users.MarkNotificationsRead(ctx, userID)
}

func (s *NotificationService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return s.users.ClearNotifications(ctx, userID)
}
