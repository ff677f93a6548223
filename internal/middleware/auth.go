package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/RpheeD/ClassMate/internal/db"
	"github.com/RpheeD/ClassMate/internal/models"
)

const CurrentUserKey = "user"

const sessionUserKey = "user_id"

// LoadUser retrieves the session user and sets it on the request context.
// It never rejects; AuthRequired does that for protected routes.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(sessionUserKey)

		if userID != nil {
			var user models.User
			if err := db.DB.First(&user, userID).Error; err == nil {
				c.Set(CurrentUserKey, &user)
			}
		}
		c.Next()
	}
}

// AuthRequired ensures a user is signed in.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CurrentUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You must be signed in."})
			return
		}
		c.Next()
	}
}

// SignIn stores the user id in the session.
func SignIn(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	return session.Save()
}

// SignOut clears the session. The client proceeds to the signed-out state
// even if saving the cleared session fails.
func SignOut(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}
