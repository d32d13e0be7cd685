package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id"`
	Username      string             `json:"username" bson:"username"`
	Email         string             `json:"email" bson:"email"`
	Password      string             `json:"-" bson:"password"`
	DisplayName   string             `json:"displayName" bson:"displayName"`
	Bio           string             `json:"bio" bson:"bio"`
	ProfilePic    string             `json:"profilePic" bson:"profilePic"`
	Role          string             `json:"role" bson:"role"`
	Notifications []Notification     `json:"-" bson:"notifications"`
	IsActive      bool               `json:"isActive" bson:"isActive"`
	LastActive    time.Time          `json:"lastActive" bson:"lastActive"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
}

// Summary is the public projection of a user embedded in list responses.
type Summary struct {
	ID          primitive.ObjectID `json:"_id"`
	Username    string             `json:"username"`
	DisplayName string             `json:"displayName"`
	ProfilePic  string             `json:"profilePic"`
}

func (u User) Summary() Summary {
	return Summary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		ProfilePic:  u.ProfilePic,
	}
}

func Summaries(users []User) []Summary {
	out := make([]Summary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out
}

const (
	NotificationFollow          = "follow"
	NotificationFriendRequest   = "friend_request"
	NotificationRequestAccepted = "request_accepted"
	NotificationLike            = "like"
	NotificationComment         = "comment"
	NotificationFeature         = "feature"
)

type Notification struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	Type         string             `json:"type" bson:"type"`
	From         primitive.ObjectID `json:"from" bson:"from"`
	FromUsername string             `json:"fromUsername" bson:"fromUsername"`
	PostID       primitive.ObjectID `json:"postId,omitempty" bson:"postId,omitempty"`
	Message      string             `json:"message" bson:"message"`
	Read         bool               `json:"read" bson:"read"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// CapNotifications orders list oldest first and keeps the newest max entries.
func CapNotifications(list []Notification, max int) []Notification {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	if len(list) > max {
		list = list[len(list)-max:]
	}
	return list
}
