package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

type Comment struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	PostID         primitive.ObjectID `json:"postId" bson:"postId"`
	Author         primitive.ObjectID `json:"author" bson:"author"`
	AuthorUsername string             `json:"authorUsername" bson:"authorUsername"`
	Text           string             `json:"text" bson:"text"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
}
