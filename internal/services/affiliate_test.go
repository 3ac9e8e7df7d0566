package services

import (
	"testing"

	"github.com/abhishek9871/nesteryrelease-sub001/internal/models"
	"github.com/abhishek9871/nesteryrelease-sub001/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAffiliateService(t *testing.T) (*AffiliateService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewAffiliateService(repository.NewAffiliateRepository(db)), db
}

func TestRegisterPartnerValidatesRate(t *testing.T) {
	svc, _ := newAffiliateService(t)

	for _, rate := range []float64{0, -0.1, 1, 1.5} {
		_, err := svc.RegisterPartner("Bad", "bad@example.com", rate)
		require.EqualError(t, err, "Commission rate must be between 0 and 1")
	}

	partner, err := svc.RegisterPartner("TravelDeals", "partners@traveldeals.example", 0.15)
	require.NoError(t, err)
	require.NotEmpty(t, partner.TrackingCode)
	require.True(t, partner.IsActive)
	require.Equal(t, 0.15, partner.CommissionRate)
}

func TestTrackClickFlagsRepeatIP(t *testing.T) {
	svc, _ := newAffiliateService(t)
	partner, err := svc.RegisterPartner("TravelDeals", "partners@traveldeals.example", 0.1)
	require.NoError(t, err)

	first, err := svc.TrackClick(partner.TrackingCode, "203.0.113.7", "test-agent", nil)
	require.NoError(t, err)
	require.False(t, first.Suspect)

	// Same address inside the window is stored but flagged
	repeat, err := svc.TrackClick(partner.TrackingCode, "203.0.113.7", "test-agent", nil)
	require.NoError(t, err)
	require.True(t, repeat.Suspect)

	other, err := svc.TrackClick(partner.TrackingCode, "198.51.100.2", "test-agent", nil)
	require.NoError(t, err)
	require.False(t, other.Suspect)
}

func TestTrackClickRejectsUnknownOrInactive(t *testing.T) {
	svc, db := newAffiliateService(t)

	_, err := svc.TrackClick("no-such-code", "203.0.113.7", "test-agent", nil)
	require.EqualError(t, err, "Affiliate partner not found")

	partner, err := svc.RegisterPartner("Dormant", "dormant@example.com", 0.1)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.AffiliatePartner{}).
		Where("id = ?", partner.ID).
		Update("is_active", false).Error)

	_, err = svc.TrackClick(partner.TrackingCode, "203.0.113.7", "test-agent", nil)
	require.EqualError(t, err, "Affiliate partner is not active")
}

func TestRecordCommissionAndEarnings(t *testing.T) {
	svc, db := newAffiliateService(t)
	partner, err := svc.RegisterPartner("TravelDeals", "partners@traveldeals.example", 0.15)
	require.NoError(t, err)

	_, err = svc.TrackClick(partner.TrackingCode, "203.0.113.7", "test-agent", nil)
	require.NoError(t, err)
	_, err = svc.TrackClick(partner.TrackingCode, "203.0.113.7", "test-agent", nil)
	require.NoError(t, err)

	booking := &models.Booking{
		UserID:           1,
		PropertyID:       1,
		CheckInDate:      day(1),
		CheckOutDate:     day(3),
		NumberOfGuests:   1,
		TotalPrice:       430,
		Currency:         "USD",
		Status:           models.BookingStatusPending,
		ConfirmationCode: "NST-000003-0001",
	}
	require.NoError(t, db.Create(booking).Error)
	require.NoError(t, svc.RecordCommission(partner.TrackingCode, booking))

	earnings, err := svc.Earnings(partner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), earnings.ValidClicks)
	require.Equal(t, int64(1), earnings.SuspectClicks)
	require.Equal(t, 64.5, earnings.TotalEarned)
	require.Equal(t, 64.5, earnings.PendingAmount)
	require.Len(t, earnings.Commissions, 1)
}

func TestEarningsUnknownPartner(t *testing.T) {
	svc, _ := newAffiliateService(t)

	_, err := svc.Earnings(9999)
	require.EqualError(t, err, "Affiliate partner not found")
}
