package handlers

import (
	"github.com/abhishek9871/nesteryrelease-sub001/internal/repository"
	"github.com/gin-gonic/gin"
)

// GetProfile retrieves the authenticated user's profile
func GetProfile(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		user, err := users.FindByID(userId)
		if err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		c.JSON(200, userResponse(user))
	}
}

// UpdateProfile updates the user's profile information
func UpdateProfile(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			Name        *string `json:"name"`
			PhoneNumber *string `json:"phoneNumber"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		user, err := users.FindByID(userId)
		if err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		// Update fields individually to handle empty strings properly
		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.PhoneNumber != nil {
			user.PhoneNumber = *input.PhoneNumber
		}

		if err := users.Save(user); err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		c.JSON(200, userResponse(user))
	}
}

// GetLoyalty returns the user's point balance and ledger, newest first
func GetLoyalty(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		user, err := users.FindByID(userId)
		if err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		history, err := users.LoyaltyHistory(userId)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch loyalty history"})
			return
		}

		c.JSON(200, gin.H{
			"balance":      user.LoyaltyPoints,
			"transactions": history,
		})
	}
}
