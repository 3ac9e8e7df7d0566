package models

import (
	"time"

	"gorm.io/gorm"
)

type CommissionStatus string

const (
	CommissionStatusPending  CommissionStatus = "pending"
	CommissionStatusApproved CommissionStatus = "approved"
	CommissionStatusPaid     CommissionStatus = "paid"
)

// AffiliatePartner is an external channel that refers bookings in exchange
// for a commission on the booking total.
type AffiliatePartner struct {
	gorm.Model
	Name           string  `json:"name" gorm:"not null"`
	Email          string  `json:"email" gorm:"unique;not null"`
	TrackingCode   string  `json:"trackingCode" gorm:"unique;not null"`
	CommissionRate float64 `json:"commissionRate" gorm:"not null"` // fraction of booking total, e.g. 0.05
	IsActive       bool    `json:"isActive" gorm:"not null;default:true"`
}

// TableName specifies the table name
func (AffiliatePartner) TableName() string {
	return "affiliate_partners"
}

// AffiliateClick records a single tracked referral click. Repeat clicks from
// the same IP inside the de-duplication window are kept but flagged Suspect
// so they are excluded from payable click counts.
type AffiliateClick struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	PartnerID  uint      `json:"partnerId" gorm:"not null;index"`
	PropertyID *uint     `json:"propertyId,omitempty" gorm:"index"`
	IPAddress  string    `json:"ipAddress" gorm:"not null"`
	UserAgent  string    `json:"userAgent"`
	Suspect    bool      `json:"suspect" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName specifies the table name
func (AffiliateClick) TableName() string {
	return "affiliate_clicks"
}

// AffiliateCommission is the amount owed to a partner for one booking.
type AffiliateCommission struct {
	ID        uint             `json:"id" gorm:"primaryKey;autoIncrement"`
	PartnerID uint             `json:"partnerId" gorm:"not null;index"`
	BookingID uint             `json:"bookingId" gorm:"not null;uniqueIndex"`
	Amount    float64          `json:"amount" gorm:"not null"`
	Status    CommissionStatus `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// TableName specifies the table name
func (AffiliateCommission) TableName() string {
	return "affiliate_commissions"
}
