package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/RpheeD/ClassMate/internal/db"
	"github.com/RpheeD/ClassMate/internal/models"
	"github.com/RpheeD/ClassMate/internal/utils"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

type profileInput struct {
	Name       *string `json:"name"`
	University *string `json:"university"`
}

// Get returns the profile, or zero values when none has been saved yet
// (read-or-default, there is no explicit creation step).
func (h *ProfileHandler) Get(c *gin.Context) {
	user := currentUser(c)

	var profile models.Profile
	err := db.DB.Where("user_id = ?", user.ID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		JSONError(c, http.StatusInternalServerError, "Failed to load profile.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":       profile.Name,
		"university": profile.University,
	})
}

// Save is an upsert-merge: only the fields present in the request are
// written, anything omitted keeps its stored value. Posts and comments
// keep the author name they were created with; a later name change here
// does not rewrite them.
func (h *ProfileHandler) Save(c *gin.Context) {
	user := currentUser(c)

	var input profileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		JSONError(c, http.StatusBadRequest, "Invalid input.")
		return
	}
	if input.Name == nil && input.University == nil {
		JSONError(c, http.StatusBadRequest, "Nothing to save.")
		return
	}

	var profile models.Profile
	err := db.DB.Where("user_id = ?", user.ID).First(&profile).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			JSONError(c, http.StatusInternalServerError, "Failed to save profile.")
			return
		}
		profile = models.Profile{UserID: user.ID}
	}

	if input.Name != nil {
		name := utils.CleanText(*input.Name)
		if name == "" {
			JSONError(c, http.StatusBadRequest, "Name cannot be empty.")
			return
		}
		profile.Name = name
	}
	if input.University != nil {
		university := utils.CleanText(*input.University)
		if university == "" {
			JSONError(c, http.StatusBadRequest, "University cannot be empty.")
			return
		}
		profile.University = university
	}

	if err := db.DB.Save(&profile).Error; err != nil {
		JSONError(c, http.StatusInternalServerError, "Failed to save profile.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":       profile.Name,
		"university": profile.University,
	})
}
