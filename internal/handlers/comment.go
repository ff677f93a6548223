package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RpheeD/ClassMate/internal/db"
	"github.com/RpheeD/ClassMate/internal/models"
	"github.com/RpheeD/ClassMate/internal/services"
	"github.com/RpheeD/ClassMate/internal/utils"
	"github.com/RpheeD/ClassMate/internal/ws"
)

type CommentHandler struct {
	refresher *services.Refresher
}

func NewCommentHandler(refresher *services.Refresher) *CommentHandler {
	return &CommentHandler{refresher: refresher}
}

type commentInput struct {
	Text string `json:"text"`
}

// List returns a post's comments, newest first.
func (h *CommentHandler) List(c *gin.Context) {
	pid := c.Param("pid")

	var post models.Post
	if err := db.DB.Where("pid = ?", pid).First(&post).Error; err != nil {
		JSONError(c, http.StatusNotFound, "Post not found.")
		return
	}

	var comments []models.Comment
	if err := db.DB.Where("post_id = ?", post.ID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to fetch comments.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": models.CommentViews(comments, pid)})
}

func (h *CommentHandler) Create(c *gin.Context) {
	user := currentUser(c)
	pid := c.Param("pid")

	var input commentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		JSONError(c, http.StatusBadRequest, "Comment cannot be empty.")
		return
	}
	text := utils.CleanText(input.Text)
	if text == "" {
		JSONError(c, http.StatusBadRequest, "Comment cannot be empty.")
		return
	}

	var post models.Post
	if err := db.DB.Where("pid = ?", pid).First(&post).Error; err != nil {
		JSONError(c, http.StatusNotFound, "Post not found.")
		return
	}

	authorName := displayNameFor(user)
	if authorName == "" {
		authorName = "Anonymous"
	}

	comment := models.Comment{
		Cid:        utils.NewDocID(),
		PostID:     post.ID,
		Text:       text,
		AuthorName: authorName,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to post comment.")
		return
	}

	h.refresher.Schedule(ws.CommentsTopic(pid))

	c.JSON(http.StatusCreated, gin.H{"comment": comment.View(pid)})
}
