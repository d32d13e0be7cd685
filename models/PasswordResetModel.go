package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

type PasswordResetCode struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Email     string             `json:"email" bson:"email"`
	CodeHash  string             `json:"-" bson:"codeHash"`
	Used      bool               `json:"used" bson:"used"`
	Attempts  int                `json:"attempts" bson:"attempts"`
	ExpiresAt time.Time          `json:"expiresAt" bson:"expiresAt"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
