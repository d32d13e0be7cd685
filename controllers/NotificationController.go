package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/helper"
	"github.com/SuperDex7/FeatureMe-sub000/services"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

func (nc *NotificationController) List(c *gin.Context) {
	list, err := nc.notifications.List(c.Request.Context(), helper.ExtractUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "unread": unread})
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	if err := nc.notifications.MarkAllRead(c.Request.Context(), helper.ExtractUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications marked as read"})
}

func (nc *NotificationController) Clear(c *gin.Context) {
	if err := nc.notifications.Clear(c.Request.Context(), helper.ExtractUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications cleared"})
}
