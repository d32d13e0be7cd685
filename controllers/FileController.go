package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/storage"
)

// FileController serves stored uploads such as avatars and post artwork.
type FileController struct {
	files storage.FileStore
}

func NewFileController(files storage.FileStore) *FileController {
	return &FileController{files: files}
}

func (fc *FileController) Get(c *gin.Context) {
	r, info, err := fc.files.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	serveFile(c, r, info, false)
}
