package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/helper"
	"github.com/SuperDex7/FeatureMe-sub000/middlewares"
	"github.com/SuperDex7/FeatureMe-sub000/services"
)

type UserController struct {
	users        *services.UserService
	resets       *services.PasswordResetService
	cookieMaxAge int
	secureCookie bool
}

func NewUserController(users *services.UserService, resets *services.PasswordResetService, cookieMaxAge int, secureCookie bool) *UserController {
	return &UserController{users: users, resets: resets, cookieMaxAge: cookieMaxAge, secureCookie: secureCookie}
}

func (uc *UserController) SignUp(c *gin.Context) {
	var in services.SignUpInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	user, err := uc.users.SignUp(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": user})
}

func (uc *UserController) Login(c *gin.Context) {
	var in services.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	user, token, err := uc.users.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.TokenCookie, token, uc.cookieMaxAge, "/", "", uc.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"data": user, "token": token})
}

func (uc *UserController) Logout(c *gin.Context) {
	c.SetCookie(middlewares.TokenCookie, "", -1, "/", "", uc.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (uc *UserController) ForgotPassword(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := uc.resets.RequestReset(c.Request.Context(), body.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the address is registered, a reset code is on its way"})
}

func (uc *UserController) ResetPassword(c *gin.Context) {
	var in services.ResetPasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := uc.resets.ResetPassword(c.Request.Context(), in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (uc *UserController) Me(c *gin.Context) {
	user, ok := helper.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (uc *UserController) UpdateMe(c *gin.Context) {
	var in services.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	user, err := uc.users.UpdateProfile(c.Request.Context(), helper.ExtractUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (uc *UserController) UpdateAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	user, err := uc.users.UpdateAvatar(c.Request.Context(), helper.ExtractUserID(c), uploadFrom(fh))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

func (uc *UserController) ChangePassword(c *gin.Context) {
	var in services.ChangePasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := uc.users.ChangePassword(c.Request.Context(), helper.ExtractUserID(c), in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (uc *UserController) Search(c *gin.Context) {
	users, err := uc.users.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (uc *UserController) Profile(c *gin.Context) {
	profile, err := uc.users.Profile(c.Request.Context(), c.Param("username"), helper.ExtractUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}
