package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/helper"
	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/services"
)

type RelationController struct {
	relations *services.RelationService
}

func NewRelationController(relations *services.RelationService) *RelationController {
	return &RelationController{relations: relations}
}

func (rc *RelationController) Toggle(c *gin.Context) {
	target, ok := paramID(c, "id")
	if !ok {
		return
	}
	following, err := rc.relations.ToggleFollow(c.Request.Context(), helper.ExtractUserID(c), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}

func (rc *RelationController) Followers(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	users, err := rc.relations.Followers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": models.Summaries(users)})
}

func (rc *RelationController) Following(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	users, err := rc.relations.Following(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": models.Summaries(users)})
}

func (rc *RelationController) Friends(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	users, err := rc.relations.Friends(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": models.Summaries(users)})
}

func (rc *RelationController) Mutual(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	users, err := rc.relations.MutualConnections(c.Request.Context(), helper.ExtractUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": models.Summaries(users)})
}

func (rc *RelationController) Suggestions(c *gin.Context) {
	limit := queryInt(c, "limit", services.DefaultSuggestionLimit)
	if limit > 50 {
		limit = 50
	}
	users, err := rc.relations.Suggestions(c.Request.Context(), helper.ExtractUserID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": models.Summaries(users)})
}

func (rc *RelationController) Block(c *gin.Context) {
	target, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := rc.relations.Block(c.Request.Context(), helper.ExtractUserID(c), target); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User blocked"})
}

func (rc *RelationController) Unblock(c *gin.Context) {
	target, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := rc.relations.Unblock(c.Request.Context(), helper.ExtractUserID(c), target); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User unblocked"})
}

func (rc *RelationController) SendRequest(c *gin.Context) {
	target, ok := paramID(c, "id")
	if !ok {
		return
	}
	req, err := rc.relations.SendRequest(c.Request.Context(), helper.ExtractUserID(c), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": req})
}

func (rc *RelationController) Requests(c *gin.Context) {
	requests, err := rc.relations.PendingRequests(c.Request.Context(), helper.ExtractUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": requests})
}

func (rc *RelationController) AcceptRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rel, err := rc.relations.AcceptRequest(c.Request.Context(), helper.ExtractUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rel})
}

// DeleteRequest declines a received request or cancels a sent one.
func (rc *RelationController) DeleteRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := rc.relations.DeleteRequest(c.Request.Context(), helper.ExtractUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request deleted"})
}
