package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

type RelationStatus string

const (
	StatusActive  RelationStatus = "ACTIVE"
	StatusPending RelationStatus = "PENDING"
	StatusBlocked RelationStatus = "BLOCKED"
)

type RelationType string

const (
	TypeFollow        RelationType = "FOLLOW"
	TypeFriendRequest RelationType = "FRIEND_REQUEST"
	TypeBlock         RelationType = "BLOCK"
)

// Relation is a directed edge from Follower to Following. There is at most
// one relation per ordered pair.
type Relation struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Follower  primitive.ObjectID `json:"follower" bson:"follower"`
	Following primitive.ObjectID `json:"following" bson:"following"`
	Status    RelationStatus     `json:"status" bson:"status"`
	Type      RelationType       `json:"type" bson:"type"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
