package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/RpheeD/ClassMate/internal/db"
	"github.com/RpheeD/ClassMate/internal/models"
	"github.com/RpheeD/ClassMate/internal/services"
	"github.com/RpheeD/ClassMate/internal/utils"
	"github.com/RpheeD/ClassMate/internal/ws"
)

const detailCacheTTL = 5 * time.Minute

type PostHandler struct {
	refresher *services.Refresher
	cache     *utils.Cache
}

func NewPostHandler(refresher *services.Refresher, cache *utils.Cache) *PostHandler {
	return &PostHandler{refresher: refresher, cache: cache}
}

type postInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Subject string `json:"subject"`
}

func detailCacheKey(pid string) string {
	return fmt.Sprintf("post:detail:%s", pid)
}

// List is the global feed, newest first.
func (h *PostHandler) List(c *gin.Context) {
	var posts []models.Post
	if err := db.DB.Preload("Author").
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to fetch posts.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": models.PostViews(posts)})
}

// ListMine returns the session user's own posts, newest first.
func (h *PostHandler) ListMine(c *gin.Context) {
	user := currentUser(c)

	var posts []models.Post
	if err := db.DB.Preload("Author").
		Where("author_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to fetch posts.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": models.PostViews(posts)})
}

func (h *PostHandler) Detail(c *gin.Context) {
	pid := c.Param("pid")

	if cached := h.cache.Get(detailCacheKey(pid)); cached != nil {
		if view, ok := cached.(models.PostView); ok {
			c.JSON(http.StatusOK, gin.H{"post": view})
			return
		}
	}

	var post models.Post
	if err := db.DB.Preload("Author").Where("pid = ?", pid).First(&post).Error; err != nil {
		JSONError(c, http.StatusNotFound, "Post not found.")
		return
	}

	view := post.View()
	h.cache.Set(detailCacheKey(pid), view, detailCacheTTL)

	c.JSON(http.StatusOK, gin.H{"post": view})
}

func (h *PostHandler) Create(c *gin.Context) {
	user := currentUser(c)

	var input postInput
	if err := c.ShouldBindJSON(&input); err != nil {
		JSONError(c, http.StatusBadRequest, "Title and content cannot be empty.")
		return
	}

	title := utils.CleanText(input.Title)
	content := utils.CleanText(input.Content)
	if title == "" || content == "" {
		JSONError(c, http.StatusBadRequest, "Title and content cannot be empty.")
		return
	}

	post := models.Post{
		Pid:        utils.NewDocID(),
		AuthorID:   user.ID,
		AuthorName: displayNameFor(user),
		Title:      title,
		Content:    content,
		Subject:    utils.CleanText(input.Subject),
	}
	if err := db.DB.Create(&post).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to create post.")
		return
	}
	post.Author = *user

	h.refresher.Schedule(ws.FeedTopic(), ws.UserPostsTopic(user.UID))

	c.JSON(http.StatusCreated, gin.H{"post": post.View()})
}

// Update overwrites title and content only. Subject and authorship are
// immutable after creation.
func (h *PostHandler) Update(c *gin.Context) {
	user := currentUser(c)
	pid := c.Param("pid")

	var post models.Post
	if err := db.DB.Preload("Author").Where("pid = ?", pid).First(&post).Error; err != nil {
		JSONError(c, http.StatusNotFound, "Post not found.")
		return
	}
	if post.AuthorID != user.ID {
		JSONError(c, http.StatusForbidden, "You can only edit your own posts.")
		return
	}

	var input postInput
	if err := c.ShouldBindJSON(&input); err != nil {
		JSONError(c, http.StatusBadRequest, "Title and content cannot be empty.")
		return
	}
	title := utils.CleanText(input.Title)
	content := utils.CleanText(input.Content)
	if title == "" || content == "" {
		JSONError(c, http.StatusBadRequest, "Title and content cannot be empty.")
		return
	}

	post.Title = title
	post.Content = content
	if err := db.DB.Save(&post).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to update post.")
		return
	}

	h.cache.Delete(detailCacheKey(pid))
	h.refresher.Schedule(ws.FeedTopic(), ws.UserPostsTopic(user.UID))

	c.JSON(http.StatusOK, gin.H{"post": post.View()})
}

// Delete removes the post and its comments in one transaction. The source
// app left comments orphaned; here the cascade is explicit.
func (h *PostHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	pid := c.Param("pid")

	var post models.Post
	if err := db.DB.Where("pid = ?", pid).First(&post).Error; err != nil {
		JSONError(c, http.StatusNotFound, "Post not found.")
		return
	}
	if post.AuthorID != user.ID {
		JSONError(c, http.StatusForbidden, "You can only delete your own posts.")
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to delete post.")
		return
	}

	h.cache.Delete(detailCacheKey(pid))
	h.refresher.Schedule(ws.FeedTopic(), ws.UserPostsTopic(user.UID), ws.CommentsTopic(pid))

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted."})
}
