package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

type Demo struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Owner     primitive.ObjectID `json:"owner" bson:"owner"`
	Title     string             `json:"title" bson:"title"`
	FileID    string             `json:"fileId" bson:"fileId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
