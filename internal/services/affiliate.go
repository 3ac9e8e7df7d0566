package services

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/abhishek9871/nesteryrelease-sub001/internal/models"
	"github.com/abhishek9871/nesteryrelease-sub001/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// clickDedupWindow is how long repeat clicks from one IP on one partner link
// stay flagged as suspect.
const clickDedupWindow = 24 * time.Hour

// AffiliateService tracks partner referrals: clicks with fraud flagging and
// commissions on partner-sourced bookings.
type AffiliateService struct {
	partners repository.AffiliateRepository
}

func NewAffiliateService(partners repository.AffiliateRepository) *AffiliateService {
	return &AffiliateService{partners: partners}
}

// RegisterPartner creates a partner with a fresh tracking code.
func (s *AffiliateService) RegisterPartner(name, email string, commissionRate float64) (*models.AffiliatePartner, error) {
	if commissionRate <= 0 || commissionRate >= 1 {
		return nil, NewBadRequest("Commission rate must be between 0 and 1")
	}

	partner := &models.AffiliatePartner{
		Name:           name,
		Email:          email,
		TrackingCode:   uuid.New().String(),
		CommissionRate: commissionRate,
		IsActive:       true,
	}
	if err := s.partners.CreatePartner(partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// TrackClick records a referral click. Every click is stored, but repeat
// clicks from the same IP inside the de-duplication window are flagged
// suspect so they never count toward payable traffic. Redis answers the
// first-seen question when available; otherwise the click table is consulted.
func (s *AffiliateService) TrackClick(trackingCode, ip, userAgent string, propertyID *uint) (*models.AffiliateClick, error) {
	partner, err := s.partners.FindPartnerByTrackingCode(trackingCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFound("Affiliate partner not found")
		}
		return nil, err
	}
	if !partner.IsActive {
		return nil, NewBadRequest("Affiliate partner is not active")
	}

	suspect := s.isRepeatClick(partner.ID, ip)

	click := &models.AffiliateClick{
		PartnerID:  partner.ID,
		PropertyID: propertyID,
		IPAddress:  ip,
		UserAgent:  userAgent,
		Suspect:    suspect,
	}
	if err := s.partners.CreateClick(click); err != nil {
		return nil, err
	}
	return click, nil
}

func (s *AffiliateService) isRepeatClick(partnerID uint, ip string) bool {
	firstSeen, err := MarkAffiliateClick(context.Background(), partnerID, ip, clickDedupWindow)
	if err == nil {
		return !firstSeen
	}

	// Redis unavailable: fall back to the click table.
	count, dbErr := s.partners.CountRecentClicks(partnerID, ip, time.Now().Add(-clickDedupWindow))
	if dbErr != nil {
		log.Printf("affiliate click dedup fallback failed: %v", dbErr)
		return false
	}
	return count > 0
}

// RecordCommission books a pending commission for a partner-sourced booking.
func (s *AffiliateService) RecordCommission(trackingCode string, booking *models.Booking) error {
	partner, err := s.partners.FindPartnerByTrackingCode(trackingCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFound("Affiliate partner not found")
		}
		return err
	}
	if !partner.IsActive {
		return NewBadRequest("Affiliate partner is not active")
	}

	amount := math.Round(booking.TotalPrice*partner.CommissionRate*100) / 100
	return s.partners.CreateCommission(&models.AffiliateCommission{
		PartnerID: partner.ID,
		BookingID: booking.ID,
		Amount:    amount,
		Status:    models.CommissionStatusPending,
	})
}

// PartnerEarnings summarises a partner's traffic and commissions.
type PartnerEarnings struct {
	Partner       *models.AffiliatePartner     `json:"partner"`
	ValidClicks   int64                        `json:"validClicks"`
	SuspectClicks int64                        `json:"suspectClicks"`
	TotalEarned   float64                      `json:"totalEarned"`
	PendingAmount float64                      `json:"pendingAmount"`
	Commissions   []models.AffiliateCommission `json:"commissions"`
}

// Earnings reports click counts and commission totals for one partner.
func (s *AffiliateService) Earnings(partnerID uint) (*PartnerEarnings, error) {
	partner, err := s.partners.FindPartnerByID(partnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFound("Affiliate partner not found")
		}
		return nil, err
	}

	validClicks, err := s.partners.CountClicks(partnerID, false)
	if err != nil {
		return nil, err
	}
	suspectClicks, err := s.partners.CountClicks(partnerID, true)
	if err != nil {
		return nil, err
	}

	commissions, err := s.partners.CommissionsByPartner(partnerID)
	if err != nil {
		return nil, err
	}

	earnings := &PartnerEarnings{
		Partner:       partner,
		ValidClicks:   validClicks,
		SuspectClicks: suspectClicks,
		Commissions:   commissions,
	}
	for _, c := range commissions {
		earnings.TotalEarned += c.Amount
		if c.Status == models.CommissionStatusPending {
			earnings.PendingAmount += c.Amount
		}
	}
	earnings.TotalEarned = math.Round(earnings.TotalEarned*100) / 100
	earnings.PendingAmount = math.Round(earnings.PendingAmount*100) / 100

	return earnings, nil
}
