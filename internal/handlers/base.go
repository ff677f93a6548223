package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/RpheeD/ClassMate/internal/db"
	"github.com/RpheeD/ClassMate/internal/middleware"
	"github.com/RpheeD/ClassMate/internal/models"
)

// JSONError writes the uniform error envelope every screen alerts on.
func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// currentUser returns the session user. Only valid behind AuthRequired.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(middleware.CurrentUserKey).(*models.User)
}

// displayNameFor resolves the name denormalized onto new posts and
// comments: the profile name when one is saved, otherwise the display name
// derived at registration.
func displayNameFor(user *models.User) string {
	var profile models.Profile
	if err := db.DB.Where("user_id = ?", user.ID).First(&profile).Error; err == nil && profile.Name != "" {
		return profile.Name
	}
	return user.DisplayName
}
