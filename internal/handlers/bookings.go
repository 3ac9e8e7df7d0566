package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/abhishek9871/nesteryrelease-sub001/internal/models"
	"github.com/abhishek9871/nesteryrelease-sub001/internal/repository"
	"github.com/abhishek9871/nesteryrelease-sub001/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type createBookingInput struct {
	PropertyID            uint            `json:"propertyId" binding:"required"`
	CheckInDate           string          `json:"checkInDate" binding:"required"`
	CheckOutDate          string          `json:"checkOutDate" binding:"required"`
	NumberOfGuests        int             `json:"numberOfGuests"`
	SpecialRequests       *string         `json:"specialRequests"`
	PaymentMethod         *string         `json:"paymentMethod"`
	LoyaltyPointsToRedeem int             `json:"loyaltyPointsToRedeem" binding:"omitempty,gte=0"`
	IsPremiumBooking      bool            `json:"isPremiumBooking"`
	SourceType            string          `json:"sourceType" binding:"omitempty,oneof=direct partner"`
	PartnerCode           string          `json:"partnerCode"`
	ExternalBookingID     *string         `json:"externalBookingId"`
	Metadata              json.RawMessage `json:"metadata"`
}

// CreateBooking handles the creation of a new booking
func CreateBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input createBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		checkIn, ok := parseDate(input.CheckInDate)
		if !ok {
			c.JSON(400, gin.H{"error": "Invalid check-in date format"})
			return
		}
		checkOut, ok := parseDate(input.CheckOutDate)
		if !ok {
			c.JSON(400, gin.H{"error": "Invalid check-out date format"})
			return
		}

		booking, err := bookings.Create(userId, services.CreateBookingRequest{
			PropertyID:            input.PropertyID,
			CheckInDate:           checkIn,
			CheckOutDate:          checkOut,
			NumberOfGuests:        input.NumberOfGuests,
			SpecialRequests:       input.SpecialRequests,
			PaymentMethod:         input.PaymentMethod,
			LoyaltyPointsToRedeem: input.LoyaltyPointsToRedeem,
			IsPremiumBooking:      input.IsPremiumBooking,
			SourceType:            models.BookingSource(input.SourceType),
			PartnerCode:           input.PartnerCode,
			ExternalBookingID:     input.ExternalBookingID,
			Metadata:              datatypes.JSON(input.Metadata),
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, booking)
	}
}

// GetBooking retrieves one booking; only its owner or an admin may read it
func GetBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		role := c.GetString("role")

		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		booking, err := bookings.FindByID(uint(id))
		if err != nil {
			respondError(c, err)
			return
		}

		if booking.UserID != userId && role != string(models.UserRoleAdmin) {
			c.JSON(403, gin.H{"error": "You do not have access to this booking"})
			return
		}

		c.JSON(200, booking)
	}
}

// GetAllBookings lists every booking, newest first (admin only)
func GetAllBookings(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := paginationFromQuery(c)

		result, err := bookings.FindAll(models.BookingStatus(c.Query("status")), page)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, result)
	}
}

// GetMyBookings lists the caller's bookings, newest first
func GetMyBookings(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		page := paginationFromQuery(c)

		result, err := bookings.FindByUserID(userId, page)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, result)
	}
}

// SearchBookings filters bookings and orders them by check-in date
func SearchBookings(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := paginationFromQuery(c)

		userID, _ := strconv.ParseUint(c.Query("userId"), 10, 32)
		propertyID, _ := strconv.ParseUint(c.Query("propertyId"), 10, 32)

		params := services.SearchParams{
			UserID:     uint(userID),
			PropertyID: uint(propertyID),
			Status:     models.BookingStatus(c.Query("status")),
		}
		if v := c.Query("checkInDateStart"); v != "" {
			t, ok := parseDate(v)
			if !ok {
				c.JSON(400, gin.H{"error": "Invalid checkInDateStart format"})
				return
			}
			params.CheckInDateStart = &t
		}
		if v := c.Query("checkInDateEnd"); v != "" {
			t, ok := parseDate(v)
			if !ok {
				c.JSON(400, gin.H{"error": "Invalid checkInDateEnd format"})
				return
			}
			params.CheckInDateEnd = &t
		}

		result, err := bookings.Search(params, page)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, result)
	}
}

type updateBookingInput struct {
	Status             *string         `json:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	CancellationReason *string         `json:"cancellationReason"`
	CheckInDate        *string         `json:"checkInDate"`
	CheckOutDate       *string         `json:"checkOutDate"`
	NumberOfGuests     *int            `json:"numberOfGuests" binding:"omitempty,gte=1"`
	SpecialRequests    *string         `json:"specialRequests"`
	PaymentMethod      *string         `json:"paymentMethod"`
	Metadata           json.RawMessage `json:"metadata"`
}

// UpdateBooking patches a booking; non-admins may only touch their own
func UpdateBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		role := c.GetString("role")

		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		var input updateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		patch := services.UpdateBookingRequest{
			CancellationReason: input.CancellationReason,
			NumberOfGuests:     input.NumberOfGuests,
			SpecialRequests:    input.SpecialRequests,
			PaymentMethod:      input.PaymentMethod,
			Metadata:           datatypes.JSON(input.Metadata),
		}
		if input.Status != nil {
			status := models.BookingStatus(*input.Status)
			patch.Status = &status
		}
		if input.CheckInDate != nil {
			t, ok := parseDate(*input.CheckInDate)
			if !ok {
				c.JSON(400, gin.H{"error": "Invalid check-in date format"})
				return
			}
			patch.CheckInDate = &t
		}
		if input.CheckOutDate != nil {
			t, ok := parseDate(*input.CheckOutDate)
			if !ok {
				c.JSON(400, gin.H{"error": "Invalid check-out date format"})
				return
			}
			patch.CheckOutDate = &t
		}

		// Admins act without the ownership restriction
		actingUserID := userId
		if role == string(models.UserRoleAdmin) {
			actingUserID = 0
		}

		booking, err := bookings.Update(uint(id), patch, actingUserID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, booking)
	}
}

// DeleteBooking hard-deletes a booking (admin only)
func DeleteBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid booking id"})
			return
		}

		if err := bookings.Remove(uint(id)); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"message": "Booking deleted"})
	}
}

func paginationFromQuery(c *gin.Context) repository.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return repository.Pagination{Page: page, Limit: limit}
}
