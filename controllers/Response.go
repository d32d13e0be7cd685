package controllers

import (
	"errors"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/services"
	"github.com/SuperDex7/FeatureMe-sub000/storage"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrSelfFollow),
		errors.Is(err, services.ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidLogin):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrBlocked):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, storage.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyFollowing),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": ...} with the matching status.
// Unexpected errors are logged and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}

// paramID parses the named path parameter as an ObjectID, answering 400
// when it is malformed.
func paramID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return n
}

func uploadFrom(fh *multipart.FileHeader) services.Upload {
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return services.Upload{
		Name:        fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// serveFile streams a stored file, as an attachment when download is set.
func serveFile(c *gin.Context, r io.ReadCloser, info storage.FileInfo, download bool) {
	defer r.Close()
	headers := map[string]string{"Cache-Control": "private, max-age=86400"}
	if download {
		headers["Content-Disposition"] = mime.FormatMediaType("attachment", map[string]string{"filename": info.Name})
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, info.Size, contentType, r, headers)
}
