package handlers

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/abhishek9871/nesteryrelease-sub001/internal/models"
	"github.com/abhishek9871/nesteryrelease-sub001/internal/repository"
	"github.com/abhishek9871/nesteryrelease-sub001/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// ListProperties returns active listings with optional city and price filters
func ListProperties(properties repository.PropertyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		minPrice, _ := strconv.ParseFloat(c.Query("minPrice"), 64)
		maxPrice, _ := strconv.ParseFloat(c.Query("maxPrice"), 64)
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit < 1 {
			limit = 20
		}
		if limit > 100 {
			limit = 100
		}

		items, total, err := properties.List(repository.PropertyFilter{
			City:     c.Query("city"),
			MinPrice: minPrice,
			MaxPrice: maxPrice,
		}, repository.Pagination{Page: page, Limit: limit})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch properties"})
			return
		}

		c.JSON(200, gin.H{"items": items, "total": total})
	}
}

// GetProperty returns one listing, served from the cache when possible
func GetProperty(properties repository.PropertyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid property id"})
			return
		}

		if cached, err := services.GetCachedProperty(c.Request.Context(), uint(id)); err == nil && cached != nil {
			c.JSON(200, cached)
			return
		}

		property, err := properties.FindByID(uint(id))
		if err != nil {
			c.JSON(404, gin.H{"error": "Property not found"})
			return
		}

		// Cache failures never block the read path
		_ = services.CacheProperty(c.Request.Context(), property)

		c.JSON(200, property)
	}
}

type propertyInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	City        string  `json:"city" binding:"required"`
	Country     string  `json:"country"`
	BasePrice   float64 `json:"basePrice" binding:"required,gt=0"`
	Currency    string  `json:"currency" binding:"omitempty,len=3"`
	MaxGuests   int     `json:"maxGuests" binding:"omitempty,gte=1"`
}

// CreateProperty registers a new listing owned by the caller
func CreateProperty(properties repository.PropertyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input propertyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		currency := input.Currency
		if currency == "" {
			currency = "USD"
		}
		maxGuests := input.MaxGuests
		if maxGuests < 1 {
			maxGuests = 1
		}

		property := models.Property{
			HostID:      userId,
			Name:        input.Name,
			Description: input.Description,
			Address:     input.Address,
			City:        input.City,
			Country:     input.Country,
			BasePrice:   input.BasePrice,
			Currency:    currency,
			MaxGuests:   maxGuests,
			IsActive:    true,
		}

		if err := properties.Create(&property); err != nil {
			c.JSON(500, gin.H{"error": "Failed to create property"})
			return
		}

		c.JSON(201, property)
	}
}

// UpdateProperty patches a listing; only the owning host or an admin may
func UpdateProperty(properties repository.PropertyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		property, ok := loadOwnedProperty(c, properties)
		if !ok {
			return
		}

		var input struct {
			Name        *string  `json:"name"`
			Description *string  `json:"description"`
			Address     *string  `json:"address"`
			City        *string  `json:"city"`
			Country     *string  `json:"country"`
			BasePrice   *float64 `json:"basePrice"`
			MaxGuests   *int     `json:"maxGuests"`
			IsActive    *bool    `json:"isActive"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.Name != nil {
			property.Name = *input.Name
		}
		if input.Description != nil {
			property.Description = *input.Description
		}
		if input.Address != nil {
			property.Address = *input.Address
		}
		if input.City != nil {
			property.City = *input.City
		}
		if input.Country != nil {
			property.Country = *input.Country
		}
		if input.BasePrice != nil {
			property.BasePrice = *input.BasePrice
		}
		if input.MaxGuests != nil {
			property.MaxGuests = *input.MaxGuests
		}
		if input.IsActive != nil {
			property.IsActive = *input.IsActive
		}

		if err := properties.Save(property); err != nil {
			c.JSON(500, gin.H{"error": "Failed to update property"})
			return
		}

		services.InvalidateProperty(c.Request.Context(), property.ID)

		c.JSON(200, property)
	}
}

// DeleteProperty removes a listing
func DeleteProperty(properties repository.PropertyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		property, ok := loadOwnedProperty(c, properties)
		if !ok {
			return
		}

		if err := properties.Delete(property.ID); err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete property"})
			return
		}

		// Stored images go with the listing; a failed removal only orphans a file
		var images []string
		if len(property.Images) > 0 && json.Unmarshal(property.Images, &images) == nil {
			for _, imageURL := range images {
				if err := services.DeleteImage(imageURL); err != nil {
					log.Printf("failed to delete image %s: %v", imageURL, err)
				}
			}
		}

		services.InvalidateProperty(c.Request.Context(), property.ID)

		c.JSON(200, gin.H{"message": "Property deleted"})
	}
}

// UploadPropertyImage stores an image and appends its URL to the listing
func UploadPropertyImage(properties repository.PropertyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		property, ok := loadOwnedProperty(c, properties)
		if !ok {
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(400, gin.H{"error": "Image file is required"})
			return
		}

		imageURL, err := services.UploadImage(file, "properties")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload image"})
			return
		}

		var images []string
		if len(property.Images) > 0 {
			if err := json.Unmarshal(property.Images, &images); err != nil {
				images = nil
			}
		}
		images = append(images, imageURL)

		data, err := json.Marshal(images)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to update images"})
			return
		}
		property.Images = datatypes.JSON(data)

		if err := properties.Save(property); err != nil {
			c.JSON(500, gin.H{"error": "Failed to update property"})
			return
		}

		services.InvalidateProperty(c.Request.Context(), property.ID)

		c.JSON(200, gin.H{"imageUrl": imageURL, "images": images})
	}
}

// loadOwnedProperty fetches the path property and enforces ownership. It
// writes the error response itself when the check fails.
func loadOwnedProperty(c *gin.Context, properties repository.PropertyRepository) (*models.Property, bool) {
	userId := c.GetUint("userId")
	role := c.GetString("role")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid property id"})
		return nil, false
	}

	property, err := properties.FindByID(uint(id))
	if err != nil {
		c.JSON(404, gin.H{"error": "Property not found"})
		return nil, false
	}

	if property.HostID != userId && role != string(models.UserRoleAdmin) {
		c.JSON(403, gin.H{"error": "You do not own this property"})
		return nil, false
	}

	return property, true
}
