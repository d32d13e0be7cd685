package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

type Chat struct {
	ID            primitive.ObjectID   `json:"_id" bson:"_id"`
	Participants  []primitive.ObjectID `json:"participants" bson:"participants"`
	Key           string               `json:"-" bson:"key"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	LastMessageAt time.Time            `json:"lastMessageAt" bson:"lastMessageAt"`
}

func (c Chat) HasParticipant(id primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p == id {
			return true
		}
	}
	return false
}

// ChatKey identifies the chat between two users regardless of order.
func ChatKey(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if x > y {
		x, y = y, x
	}
	return x + ":" + y
}

const MessageStatusSent = "sent"

type Message struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	ChatID    primitive.ObjectID `json:"chatId" bson:"chatId"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Content   string             `json:"content" bson:"content"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
