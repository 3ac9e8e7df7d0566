package repository

import (
	"time"

	"github.com/abhishek9871/nesteryrelease-sub001/internal/models"
	"gorm.io/gorm"
)

// BookingFilter narrows booking queries. Nil/zero fields are ignored.
type BookingFilter struct {
	UserID           uint
	PropertyID       uint
	Status           models.BookingStatus
	CheckInDateStart *time.Time
	CheckInDateEnd   *time.Time
	// Overlapping selects bookings whose [check-in, check-out] range
	// intersects the given range using the inclusive test
	// check_in_date <= range.End AND check_out_date >= range.Start.
	Overlapping *DateRange
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

// Pagination is 1-based. Limit is clamped by the service layer.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit
}

// BookingRepository is the persistence port for bookings.
type BookingRepository interface {
	Create(booking *models.Booking) error
	Save(booking *models.Booking) error
	FindByID(id uint) (*models.Booking, error)
	Find(filter BookingFilter) ([]models.Booking, error)
	FindAndCount(filter BookingFilter, page Pagination, order string) ([]models.Booking, int64, error)
	// Delete hard-deletes a booking and reports how many rows were removed.
	Delete(id uint) (int64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

func (r *bookingRepository) Save(booking *models.Booking) error {
	return r.db.Save(booking).Error
}

func (r *bookingRepository) FindByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Find(filter BookingFilter) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := applyBookingFilter(r.db, filter).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindAndCount(filter BookingFilter, page Pagination, order string) ([]models.Booking, int64, error) {
	query := applyBookingFilter(r.db.Model(&models.Booking{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []models.Booking
	if err := query.
		Order(order).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *bookingRepository) Delete(id uint) (int64, error) {
	result := r.db.Delete(&models.Booking{}, id)
	return result.RowsAffected, result.Error
}

func applyBookingFilter(db *gorm.DB, filter BookingFilter) *gorm.DB {
	query := db
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.PropertyID != 0 {
		query = query.Where("property_id = ?", filter.PropertyID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CheckInDateStart != nil {
		query = query.Where("check_in_date >= ?", *filter.CheckInDateStart)
	}
	if filter.CheckInDateEnd != nil {
		query = query.Where("check_in_date <= ?", *filter.CheckInDateEnd)
	}
	if filter.Overlapping != nil {
		query = query.Where("check_in_date <= ? AND check_out_date >= ?", filter.Overlapping.End, filter.Overlapping.Start)
	}
	return query
}
