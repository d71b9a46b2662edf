package controllers

import (
	"errors"
	"net/http"

	"fieldpro-backend/config"
	"fieldpro-backend/models"
	"fieldpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdateProfileInput uses pointers so an absent field means "leave unchanged",
// which is not the same as a field sent empty (always rejected).
type UpdateProfileInput struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Password     *string `json:"password"`
	Phone        *string `json:"phone"`
	BusinessName *string `json:"businessName"`
}

func GetProfile(c *gin.Context) {
	accountID, exists := c.Get("accountId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account not found")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", accountID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Account not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"name":         user.Name,
		"email":        user.Email,
		"phone":        user.Phone,
		"businessName": user.BusinessName,
	})
}

func UpdateProfile(c *gin.Context) {
	accountID, exists := c.Get("accountId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account not found")
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Name == nil && input.Email == nil && input.Password == nil &&
		input.Phone == nil && input.BusinessName == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "No valid fields to update")
		return
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", accountID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Account not found")
		return
	}

	if input.Name != nil {
		name, empty := utils.TrimmedOrEmpty(*input.Name)
		if empty {
			utils.RespondWithError(c, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		user.Name = name
	}

	if input.Email != nil {
		email, empty := utils.TrimmedOrEmpty(*input.Email)
		if empty {
			utils.RespondWithError(c, http.StatusBadRequest, "Email cannot be empty")
			return
		}

		// Another account may not already hold this address
		if email != user.Email {
			var existing models.User
			err := config.DB.Where("email = ? AND id <> ?", email, user.ID).First(&existing).Error
			if err == nil {
				utils.RespondWithError(c, http.StatusConflict, "Email already registered")
				return
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				return
			}
		}
		user.Email = email
	}

	if input.Password != nil {
		if len(*input.Password) < 6 {
			utils.RespondWithError(c, http.StatusBadRequest, "Password must be at least 6 characters")
			return
		}
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update password")
			return
		}
		user.Password = hashed
	}

	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.BusinessName != nil {
		user.BusinessName = *input.BusinessName
	}

	if err := config.DB.Model(&user).Updates(map[string]interface{}{
		"name":          user.Name,
		"email":         user.Email,
		"password":      user.Password,
		"phone":         user.Phone,
		"business_name": user.BusinessName,
	}).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"name":         user.Name,
		"email":        user.Email,
		"phone":        user.Phone,
		"businessName": user.BusinessName,
	})
}
