package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

type Post struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	Author         primitive.ObjectID `json:"author" bson:"author"`
	AuthorUsername string             `json:"authorUsername" bson:"authorUsername"`
	Title          string             `json:"title" bson:"title"`
	Description    string             `json:"description" bson:"description"`
	Genres         []string           `json:"genres" bson:"genres"`
	Features       []string           `json:"features" bson:"features"`
	Files          []string           `json:"files" bson:"files"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
}

// HasFile reports whether fileID is one of the post's uploads.
func (p Post) HasFile(fileID string) bool {
	for _, f := range p.Files {
		if f == fileID {
			return true
		}
	}
	return false
}

// PostDetails is a post together with its engagement counters.
type PostDetails struct {
	Post
	Likes     int64 `json:"likes"`
	Comments  int64 `json:"comments"`
	Views     int64 `json:"views"`
	Downloads int64 `json:"downloads"`
	LikedByMe bool  `json:"likedByMe"`
}

type Like struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	PostID    primitive.ObjectID `json:"postId" bson:"postId"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type View struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	PostID   primitive.ObjectID `json:"postId" bson:"postId"`
	UserID   primitive.ObjectID `json:"userId" bson:"userId"`
	ViewedAt time.Time          `json:"viewedAt" bson:"viewedAt"`
}

type Download struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	PostID    primitive.ObjectID `json:"postId" bson:"postId"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	FileID    string             `json:"fileId" bson:"fileId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
