package services

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/abhishek9871/nesteryrelease-sub001/internal/database"
	"github.com/abhishek9871/nesteryrelease-sub001/internal/models"
	"github.com/abhishek9871/nesteryrelease-sub001/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Per-test in-memory database to avoid cross-test interference
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateAll(db))
	return db
}

func newBookingService(t *testing.T) (*BookingService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	affiliates := NewAffiliateService(repository.NewAffiliateRepository(db))
	svc := NewBookingService(
		repository.NewBookingRepository(db),
		repository.NewUserRepository(db),
		repository.NewPropertyRepository(db),
		affiliates,
		nil,
	)
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, points int, premium bool) *models.User {
	t.Helper()
	user := &models.User{
		Name:          "Guest",
		Email:         fmt.Sprintf("guest-%d@example.com", time.Now().UnixNano()),
		PasswordHash:  "x",
		Role:          string(models.UserRoleUser),
		LoyaltyPoints: points,
		IsPremium:     premium,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedProperty(t *testing.T, db *gorm.DB, basePrice float64) *models.Property {
	t.Helper()
	host := seedUser(t, db, 0, false)
	property := &models.Property{
		HostID:    host.ID,
		Name:      "Sea View Villa",
		City:      "Lisbon",
		Country:   "Portugal",
		BasePrice: basePrice,
		Currency:  "USD",
		MaxGuests: 4,
		IsActive:  true,
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func userBalance(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return user.LoyaltyPoints
}

func TestCreateBookingPremiumWithRedemption(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 2500, true)
	property := seedProperty(t, db, 100)

	booking, err := svc.Create(user.ID, CreateBookingRequest{
		PropertyID:            property.ID,
		CheckInDate:           day(1),
		CheckOutDate:          day(6),
		NumberOfGuests:        2,
		LoyaltyPointsToRedeem: 2000,
		IsPremiumBooking:      true,
	})
	require.NoError(t, err)

	// 5 nights at 100, 10% premium discount, then 2000 points worth 20.00
	require.Equal(t, 430.0, booking.TotalPrice)
	require.Equal(t, "USD", booking.Currency)
	require.Equal(t, models.BookingStatusPending, booking.Status)
	require.Equal(t, 2000, booking.LoyaltyPointsRedeemed)
	require.Equal(t, 430, booking.LoyaltyPointsEarned)

	require.Equal(t, 930, userBalance(t, db, user.ID))

	var entries []models.LoyaltyTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("id ASC").Find(&entries).Error)
	require.Len(t, entries, 2)
	require.Equal(t, models.LoyaltyTransactionRedeem, entries[0].Type)
	require.Equal(t, -2000, entries[0].Points)
	require.Equal(t, 500, entries[0].BalanceAfter)
	require.Equal(t, models.LoyaltyTransactionEarn, entries[1].Type)
	require.Equal(t, 430, entries[1].Points)
	require.Equal(t, 930, entries[1].BalanceAfter)
}

func TestCreateBookingRedemptionCap(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 50000, false)
	property := seedProperty(t, db, 100)

	booking, err := svc.Create(user.ID, CreateBookingRequest{
		PropertyID:            property.ID,
		CheckInDate:           day(1),
		CheckOutDate:          day(2),
		NumberOfGuests:        1,
		LoyaltyPointsToRedeem: 10000,
	})
	require.NoError(t, err)

	// Discount capped at 30% of 100 even though 10000 points are worth 100,
	// yet the full requested amount is debited
	require.Equal(t, 70.0, booking.TotalPrice)
	require.Equal(t, 10000, booking.LoyaltyPointsRedeemed)
	require.Equal(t, 40070, userBalance(t, db, user.ID))
}

func TestCreateBookingPartialNightRoundsUp(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 0, false)
	property := seedProperty(t, db, 100)

	checkIn := time.Date(2025, time.March, 1, 15, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, time.March, 2, 16, 0, 0, 0, time.UTC)

	booking, err := svc.Create(user.ID, CreateBookingRequest{
		PropertyID:     property.ID,
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: 1,
	})
	require.NoError(t, err)

	// 25 hours counts as 2 nights
	require.Equal(t, 200.0, booking.TotalPrice)
}

func TestCreateBookingRejectsInvalidDates(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 0, false)
	property := seedProperty(t, db, 100)

	_, err := svc.Create(user.ID, CreateBookingRequest{
		PropertyID:   property.ID,
		CheckInDate:  day(5),
		CheckOutDate: day(5),
	})
	require.EqualError(t, err, "Check-out date must be after check-in date")

	_, err = svc.Create(user.ID, CreateBookingRequest{
		PropertyID:   property.ID,
		CheckInDate:  day(5),
		CheckOutDate: day(3),
	})
	require.EqualError(t, err, "Check-out date must be after check-in date")

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateBookingBlocksOverlappingConfirmed(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 0, false)
	property := seedProperty(t, db, 100)

	existing := &models.Booking{
		UserID:           user.ID,
		PropertyID:       property.ID,
		CheckInDate:      day(10),
		CheckOutDate:     day(15),
		NumberOfGuests:   1,
		TotalPrice:       500,
		Currency:         "USD",
		Status:           models.BookingStatusConfirmed,
		ConfirmationCode: "NST-000001-0001",
	}
	require.NoError(t, db.Create(existing).Error)

	// Overlap on either inclusive boundary is rejected
	_, err := svc.Create(user.ID, CreateBookingRequest{
		PropertyID:   property.ID,
		CheckInDate:  day(15),
		CheckOutDate: day(18),
	})
	require.EqualError(t, err, "Property is not available for the selected dates")

	_, err = svc.Create(user.ID, CreateBookingRequest{
		PropertyID:   property.ID,
		CheckInDate:  day(5),
		CheckOutDate: day(10),
	})
	require.EqualError(t, err, "Property is not available for the selected dates")

	// Adjacent but non-overlapping dates are fine
	_, err = svc.Create(user.ID, CreateBookingRequest{
		PropertyID:   property.ID,
		CheckInDate:  day(16),
		CheckOutDate: day(18),
	})
	require.NoError(t, err)
}

func TestCreateBookingIgnoresNonConfirmedOverlap(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 0, false)
	property := seedProperty(t, db, 100)

	cancelled := &models.Booking{
		UserID:           user.ID,
		PropertyID:       property.ID,
		CheckInDate:      day(10),
		CheckOutDate:     day(15),
		NumberOfGuests:   1,
		TotalPrice:       500,
		Currency:         "USD",
		Status:           models.BookingStatusCancelled,
		ConfirmationCode: "NST-000001-0002",
	}
	require.NoError(t, db.Create(cancelled).Error)

	_, err := svc.Create(user.ID, CreateBookingRequest{
		PropertyID:   property.ID,
		CheckInDate:  day(10),
		CheckOutDate: day(15),
	})
	require.NoError(t, err)
}

func TestCreateBookingInsufficientPoints(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 100, false)
	property := seedProperty(t, db, 100)

	_, err := svc.Create(user.ID, CreateBookingRequest{
		PropertyID:            property.ID,
		CheckInDate:           day(1),
		CheckOutDate:          day(3),
		LoyaltyPointsToRedeem: 200,
	})
	require.EqualError(t, err, "Insufficient loyalty points")

	require.Equal(t, 100, userBalance(t, db, user.ID))
	var ledgerCount int64
	require.NoError(t, db.Model(&models.LoyaltyTransaction{}).Count(&ledgerCount).Error)
	require.Zero(t, ledgerCount)
}

func TestCreateBookingCoercesGuests(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 0, false)
	property := seedProperty(t, db, 100)

	booking, err := svc.Create(user.ID, CreateBookingRequest{
		PropertyID:     property.ID,
		CheckInDate:    day(1),
		CheckOutDate:   day(2),
		NumberOfGuests: 0,
	})
	require.NoError(t, err)
	require.Equal(t, 1, booking.NumberOfGuests)
}

func TestConfirmationCodeFormat(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 0, false)
	property := seedProperty(t, db, 100)

	booking, err := svc.Create(user.ID, CreateBookingRequest{
		PropertyID:   property.ID,
		CheckInDate:  day(1),
		CheckOutDate: day(2),
	})
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^NST-\d{6}-\d{4}$`), booking.ConfirmationCode)
}

func TestCancelBookingReversesLoyalty(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 2500, true)
	property := seedProperty(t, db, 100)

	booking, err := svc.Create(user.ID, CreateBookingRequest{
		PropertyID:            property.ID,
		CheckInDate:           day(1),
		CheckOutDate:          day(6),
		LoyaltyPointsToRedeem: 2000,
		IsPremiumBooking:      true,
	})
	require.NoError(t, err)
	require.Equal(t, 930, userBalance(t, db, user.ID))

	status := models.BookingStatusCancelled
	reason := "Change of plans"
	updated, err := svc.Update(booking.ID, UpdateBookingRequest{
		Status:             &status,
		CancellationReason: &reason,
	}, user.ID)
	require.NoError(t, err)

	require.Equal(t, models.BookingStatusCancelled, updated.Status)
	require.Equal(t, &reason, updated.CancellationReason)
	// Redeemed points returned, earned points reclaimed
	require.Equal(t, 2500, userBalance(t, db, user.ID))

	var entries []models.LoyaltyTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("id ASC").Find(&entries).Error)
	require.Len(t, entries, 4)
	require.Equal(t, models.LoyaltyTransactionCancellationCredit, entries[2].Type)
	require.Equal(t, 2000, entries[2].Points)
	require.Equal(t, models.LoyaltyTransactionCancellationDebit, entries[3].Type)
	require.Equal(t, -430, entries[3].Points)
}

func TestCancelBookingRequiresReason(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 2500, false)
	property := seedProperty(t, db, 100)

	booking, err := svc.Create(user.ID, CreateBookingRequest{
		PropertyID:            property.ID,
		CheckInDate:           day(1),
		CheckOutDate:          day(3),
		LoyaltyPointsToRedeem: 500,
	})
	require.NoError(t, err)
	balanceBefore := userBalance(t, db, user.ID)

	status := models.BookingStatusCancelled
	_, err = svc.Update(booking.ID, UpdateBookingRequest{Status: &status}, user.ID)
	require.EqualError(t, err, "Cancellation reason is required")

	reloaded, err := svc.FindByID(booking.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusPending, reloaded.Status)
	require.Equal(t, balanceBefore, userBalance(t, db, user.ID))
}

func TestUpdateBookingOwnership(t *testing.T) {
	svc, db := newBookingService(t)
	owner := seedUser(t, db, 0, false)
	stranger := seedUser(t, db, 0, false)
	property := seedProperty(t, db, 100)

	booking, err := svc.Create(owner.ID, CreateBookingRequest{
		PropertyID:   property.ID,
		CheckInDate:  day(1),
		CheckOutDate: day(3),
	})
	require.NoError(t, err)

	guests := 3
	_, err = svc.Update(booking.ID, UpdateBookingRequest{NumberOfGuests: &guests}, stranger.ID)
	require.EqualError(t, err, "You do not have permission to modify this booking")

	// An acting user of zero bypasses the ownership check (admin path)
	updated, err := svc.Update(booking.ID, UpdateBookingRequest{NumberOfGuests: &guests}, 0)
	require.NoError(t, err)
	require.Equal(t, 3, updated.NumberOfGuests)
}

func TestRemoveBooking(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 0, false)
	property := seedProperty(t, db, 100)

	booking, err := svc.Create(user.ID, CreateBookingRequest{
		PropertyID:   property.ID,
		CheckInDate:  day(1),
		CheckOutDate: day(3),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(booking.ID))

	_, err = svc.FindByID(booking.ID)
	require.EqualError(t, err, "Booking not found")

	err = svc.Remove(booking.ID)
	require.EqualError(t, err, "Booking not found")
}

func TestSearchBookingsInclusiveRange(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 0, false)
	property := seedProperty(t, db, 100)

	for _, d := range []int{20, 5, 12} {
		booking := &models.Booking{
			UserID:           user.ID,
			PropertyID:       property.ID,
			CheckInDate:      day(d),
			CheckOutDate:     day(d + 2),
			NumberOfGuests:   1,
			TotalPrice:       200,
			Currency:         "USD",
			Status:           models.BookingStatusConfirmed,
			ConfirmationCode: fmt.Sprintf("NST-000001-%04d", d),
		}
		require.NoError(t, db.Create(booking).Error)
	}

	start := day(5)
	end := day(12)
	result, err := svc.Search(SearchParams{
		PropertyID:       property.ID,
		CheckInDateStart: &start,
		CheckInDateEnd:   &end,
	}, repository.Pagination{})
	require.NoError(t, err)

	// Both boundary dates match, ordered by check-in ascending
	require.Equal(t, int64(2), result.Total)
	require.Len(t, result.Items, 2)
	require.True(t, result.Items[0].CheckInDate.Equal(day(5)))
	require.True(t, result.Items[1].CheckInDate.Equal(day(12)))
}

func TestFindByUserIDPagination(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 0, false)
	property := seedProperty(t, db, 100)

	base := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		booking := &models.Booking{
			UserID:           user.ID,
			PropertyID:       property.ID,
			CheckInDate:      day(i*3 + 1),
			CheckOutDate:     day(i*3 + 2),
			NumberOfGuests:   1,
			TotalPrice:       100,
			Currency:         "USD",
			Status:           models.BookingStatusConfirmed,
			ConfirmationCode: fmt.Sprintf("NST-000002-%04d", i),
			CreatedAt:        base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(booking).Error)
	}

	page1, err := svc.FindByUserID(user.ID, repository.Pagination{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), page1.Total)
	require.Len(t, page1.Items, 2)
	// Newest first
	require.True(t, page1.Items[0].CreatedAt.After(page1.Items[1].CreatedAt))

	page2, err := svc.FindByUserID(user.ID, repository.Pagination{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page2.Items, 1)
}

func TestPartnerSourcedBookingRecordsCommission(t *testing.T) {
	svc, db := newBookingService(t)
	user := seedUser(t, db, 0, false)
	property := seedProperty(t, db, 100)

	partner := &models.AffiliatePartner{
		Name:           "TravelDeals",
		Email:          "partners@traveldeals.example",
		TrackingCode:   "td-tracking-code",
		CommissionRate: 0.15,
		IsActive:       true,
	}
	require.NoError(t, db.Create(partner).Error)

	booking, err := svc.Create(user.ID, CreateBookingRequest{
		PropertyID:   property.ID,
		CheckInDate:  day(1),
		CheckOutDate: day(6),
		SourceType:   models.BookingSourcePartner,
		PartnerCode:  "td-tracking-code",
	})
	require.NoError(t, err)

	var commission models.AffiliateCommission
	require.NoError(t, db.Where("booking_id = ?", booking.ID).First(&commission).Error)
	require.Equal(t, partner.ID, commission.PartnerID)
	require.Equal(t, 75.0, commission.Amount)
	require.Equal(t, models.CommissionStatusPending, commission.Status)
}
