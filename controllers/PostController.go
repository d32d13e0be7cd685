package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SuperDex7/FeatureMe-sub000/helper"
	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/services"
)

type PostController struct {
	posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// formList accepts both repeated fields and a single comma separated value.
func formList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (pc *PostController) Create(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "expected a multipart form")
		return
	}
	in := services.CreatePostInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Genres:      formList(form.Value["genres"]),
		Features:    formList(form.Value["features"]),
	}
	for _, fh := range form.File["files"] {
		in.Files = append(in.Files, uploadFrom(fh))
	}

	post, err := pc.posts.Create(c.Request.Context(), helper.ExtractUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": post})
}

func (pc *PostController) List(c *gin.Context) {
	posts, err := pc.posts.ListRecent(c.Request.Context(), helper.Pagination(c), helper.ExtractUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

func (pc *PostController) Feed(c *gin.Context) {
	posts, err := pc.posts.Feed(c.Request.Context(), helper.ExtractUserID(c), helper.Pagination(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

func (pc *PostController) ListByAuthor(c *gin.Context) {
	posts, err := pc.posts.ListByAuthor(c.Request.Context(), c.Param("username"), helper.Pagination(c), helper.ExtractUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": posts})
}

func (pc *PostController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	post, err := pc.posts.Get(c.Request.Context(), id, helper.ExtractUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (pc *PostController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := pc.posts.Delete(c.Request.Context(), helper.ExtractUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (pc *PostController) ToggleLike(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	liked, count, err := pc.posts.ToggleLike(c.Request.Context(), helper.ExtractUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": count})
}

func (pc *PostController) Likers(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	users, err := pc.posts.Likers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": models.Summaries(users)})
}

func (pc *PostController) AddComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err.Error())
		return
	}
	comment, err := pc.posts.AddComment(c.Request.Context(), helper.ExtractUserID(c), id, body.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": comment})
}

func (pc *PostController) Comments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	comments, err := pc.posts.Comments(c.Request.Context(), id, helper.Pagination(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": comments})
}

func (pc *PostController) DeleteComment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := pc.posts.DeleteComment(c.Request.Context(), helper.ExtractUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

func (pc *PostController) RecordView(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	views, err := pc.posts.RecordView(c.Request.Context(), helper.ExtractUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"views": views})
}

func (pc *PostController) Download(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r, info, err := pc.posts.OpenDownload(c.Request.Context(), helper.ExtractUserID(c), id, c.Param("fileId"))
	if err != nil {
		respondError(c, err)
		return
	}
	serveFile(c, r, info, true)
}
