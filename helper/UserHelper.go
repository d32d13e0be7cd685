package helper

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/models"
)

const userKey = "user"

// SetUser attaches the authenticated user to the request.
func SetUser(c *gin.Context, user models.User) {
	c.Set(userKey, user)
}

// CurrentUser returns the user RequireAuth attached to the request.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

func ExtractUserID(c *gin.Context) primitive.ObjectID {
	user, _ := CurrentUser(c)
	return user.ID
}
