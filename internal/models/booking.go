package models

import (
	"time"

	"gorm.io/datatypes"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type BookingSource string

const (
	BookingSourceDirect  BookingSource = "direct"
	BookingSourcePartner BookingSource = "partner"
)

// Booking represents one reservation of a property.
// It deliberately does not embed gorm.Model: removal is a hard delete,
// so there is no DeletedAt column.
type Booking struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID     uint      `json:"userId" gorm:"not null;index"`
	User       *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	PropertyID uint      `json:"propertyId" gorm:"not null;index"`
	Property   *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`

	CheckInDate    time.Time `json:"checkInDate" gorm:"not null;index"`
	CheckOutDate   time.Time `json:"checkOutDate" gorm:"not null"`
	NumberOfGuests int       `json:"numberOfGuests" gorm:"not null;default:1"`

	TotalPrice float64       `json:"totalPrice" gorm:"not null"`
	Currency   string        `json:"currency" gorm:"size:3;not null;default:'USD'"`
	Status     BookingStatus `json:"status" gorm:"not null;default:'pending'"`

	ConfirmationCode   string  `json:"confirmationCode" gorm:"unique;not null"`
	CancellationReason *string `json:"cancellationReason,omitempty"`

	LoyaltyPointsEarned   int  `json:"loyaltyPointsEarned" gorm:"not null;default:0"`
	LoyaltyPointsRedeemed int  `json:"loyaltyPointsRedeemed" gorm:"not null;default:0"`
	IsPremiumBooking      bool `json:"isPremiumBooking" gorm:"not null;default:false"`

	SpecialRequests   *string        `json:"specialRequests,omitempty"`
	PaymentMethod     *string        `json:"paymentMethod,omitempty"`
	SourceType        BookingSource  `json:"sourceType" gorm:"not null;default:'direct'"`
	ExternalBookingID *string        `json:"externalBookingId,omitempty"`
	Metadata          datatypes.JSON `json:"metadata,omitempty"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}
