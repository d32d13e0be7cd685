package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/helper"
	"github.com/SuperDex7/FeatureMe-sub000/services"
)

type DemoController struct {
	demos *services.DemoService
}

func NewDemoController(demos *services.DemoService) *DemoController {
	return &DemoController{demos: demos}
}

func (dc *DemoController) Upload(c *gin.Context) {
	var upload *services.Upload
	if fh, err := c.FormFile("file"); err == nil {
		u := uploadFrom(fh)
		upload = &u
	}
	demo, err := dc.demos.Upload(c.Request.Context(), helper.ExtractUserID(c), c.PostForm("title"), upload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": demo})
}

func (dc *DemoController) ListByUsername(c *gin.Context) {
	demos, err := dc.demos.ListByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": demos})
}

func (dc *DemoController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := dc.demos.Delete(c.Request.Context(), helper.ExtractUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Demo deleted"})
}
