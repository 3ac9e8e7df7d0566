package handlers

import (
	"strconv"

	"github.com/abhishek9871/nesteryrelease-sub001/internal/services"
	"github.com/gin-gonic/gin"
)

type registerPartnerInput struct {
	Name           string  `json:"name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	CommissionRate float64 `json:"commissionRate" binding:"required"`
}

// RegisterAffiliatePartner creates a new partner with a fresh tracking code
// (admin only)
func RegisterAffiliatePartner(affiliates *services.AffiliateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input registerPartnerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		partner, err := affiliates.RegisterPartner(input.Name, input.Email, input.CommissionRate)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, partner)
	}
}

// TrackAffiliateClick records a click-through for a partner's tracking code.
// Repeat clicks from the same address are stored but flagged as suspect.
func TrackAffiliateClick(affiliates *services.AffiliateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		trackingCode := c.Param("code")

		var propertyID *uint
		if v := c.Query("propertyId"); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid property id"})
				return
			}
			pid := uint(id)
			propertyID = &pid
		}

		click, err := affiliates.TrackClick(trackingCode, c.ClientIP(), c.Request.UserAgent(), propertyID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, gin.H{
			"clickId": click.ID,
			"suspect": click.Suspect,
		})
	}
}

// GetAffiliateEarnings reports a partner's click and commission totals
// (admin only)
func GetAffiliateEarnings(affiliates *services.AffiliateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid partner id"})
			return
		}

		earnings, err := affiliates.Earnings(uint(id))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, earnings)
	}
}
