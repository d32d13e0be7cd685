package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/helper"
	"github.com/SuperDex7/FeatureMe-sub000/services"
)

// MessageController is the REST side of chat. Messages sent or deleted here
// are relayed to connected participants through the hub.
type MessageController struct {
	chats *services.ChatService
	hub   *ChatHub
}

func NewMessageController(chats *services.ChatService, hub *ChatHub) *MessageController {
	return &MessageController{chats: chats, hub: hub}
}

func (mc *MessageController) Open(c *gin.Context) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}
	other, err := primitive.ObjectIDFromHex(body.UserID)
	if err != nil {
		badRequest(c, "invalid userId")
		return
	}
	chat, err := mc.chats.Open(c.Request.Context(), helper.ExtractUserID(c), other)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": chat})
}

func (mc *MessageController) List(c *gin.Context) {
	chats, err := mc.chats.Chats(c.Request.Context(), helper.ExtractUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": chats})
}

// Messages pages backwards with ?before=<RFC3339 time>&limit=.
func (mc *MessageController) Messages(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var before time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			badRequest(c, "before must be an RFC 3339 time")
			return
		}
		before = t
	}
	limit := int64(queryInt(c, "limit", services.DefaultMessageLimit))

	messages, err := mc.chats.Messages(c.Request.Context(), helper.ExtractUserID(c), id, before, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": messages})
}

func (mc *MessageController) Send(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}
	msg, chat, err := mc.chats.Send(c.Request.Context(), helper.ExtractUserID(c), id, body.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	mc.hub.Relay(chat, Frame{Action: ActionSend, Message: msg})
	c.JSON(http.StatusCreated, gin.H{"data": msg})
}

func (mc *MessageController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	msg, chat, err := mc.chats.DeleteMessage(c.Request.Context(), helper.ExtractUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	mc.hub.Relay(chat, Frame{Action: ActionDelete, Message: msg})
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}
