package handlers

import (
	"os"
	"strconv"

	"github.com/abhishek9871/nesteryrelease-sub001/internal/repository"
	"github.com/abhishek9871/nesteryrelease-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetShareContent returns a caption and per-network share links for a property
func GetShareContent(properties repository.PropertyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid property id"})
			return
		}

		property, err := properties.FindByID(uint(id))
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(404, gin.H{"error": "Property not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Internal server error"})
			return
		}

		baseURL := os.Getenv("BASE_URL")
		if baseURL == "" {
			baseURL = "http://localhost:8080"
		}

		c.JSON(200, utils.BuildShareContent(property, baseURL))
	}
}
