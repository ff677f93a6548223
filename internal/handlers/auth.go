package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/RpheeD/ClassMate/internal/db"
	"github.com/RpheeD/ClassMate/internal/middleware"
	"github.com/RpheeD/ClassMate/internal/models"
	"github.com/RpheeD/ClassMate/internal/utils"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type credentialsInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new identity. It does not start a session; the app
// shows a success alert and navigates to the login screen.
func (h *AuthHandler) Register(c *gin.Context) {
	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		JSONError(c, http.StatusBadRequest, "Email and password are required.")
		return
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		JSONError(c, http.StatusBadRequest, "Invalid email address.")
		return
	}
	if len(input.Password) < 6 {
		JSONError(c, http.StatusBadRequest, "Password must be at least 6 characters.")
		return
	}

	var existing models.User
	err := db.DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		JSONError(c, http.StatusConflict, "Email is already registered.")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		JSONError(c, http.StatusInternalServerError, "Registration failed.")
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		JSONError(c, http.StatusInternalServerError, "Registration failed.")
		return
	}

	user := models.User{
		UID:         utils.NewDocID(),
		Email:       email,
		Password:    hash,
		DisplayName: parts[0],
	}
	if err := db.DB.Create(&user).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "Registration failed.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful. Please sign in."})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		JSONError(c, http.StatusBadRequest, "Email and password are required.")
		return
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		JSONError(c, http.StatusUnauthorized, "Invalid email or password.")
		return
	}
	if !utils.CheckPasswordHash(input.Password, user.Password) {
		JSONError(c, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	if err := middleware.SignIn(c, &user); err != nil {
		JSONError(c, http.StatusInternalServerError, "Sign in failed.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout clears the session. A failed save is logged but the client still
// lands in the signed-out state, so the response stays 200.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.SignOut(c); err != nil {
		log.Printf("logout: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out."})
}

// Me reports the current identity, or 401 when there is none.
func (h *AuthHandler) Me(c *gin.Context) {
	user, exists := c.Get(middleware.CurrentUserKey)
	if !exists {
		JSONError(c, http.StatusUnauthorized, "Not signed in.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
