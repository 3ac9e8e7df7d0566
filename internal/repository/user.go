package repository

import (
	"github.com/abhishek9871/nesteryrelease-sub001/internal/models"
	"gorm.io/gorm"
)

// UserRepository is the account-store port the booking engine depends on.
// Loyalty balances are only ever mutated through AddLoyaltyPoints so every
// change is a single signed-delta update.
type UserRepository interface {
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Save(user *models.User) error
	// AddLoyaltyPoints applies a signed delta to the user's balance and
	// records a ledger entry. The delta may be negative; the balance may go
	// negative on cancellation reversal (best-effort accounting).
	AddLoyaltyPoints(userID uint, delta int, txType models.LoyaltyTransactionType, bookingID *uint, description string) error
	LoyaltyHistory(userID uint) ([]models.LoyaltyTransaction, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) Save(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) AddLoyaltyPoints(userID uint, delta int, txType models.LoyaltyTransactionType, bookingID *uint, description string) error {
	if delta == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Single expression update so concurrent deltas cannot lose writes.
		result := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("loyalty_points", gorm.Expr("loyalty_points + ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		entry := models.LoyaltyTransaction{
			UserID:       userID,
			Points:       delta,
			BalanceAfter: user.LoyaltyPoints,
			Type:         txType,
			BookingID:    bookingID,
			Description:  description,
		}
		return tx.Create(&entry).Error
	})
}

func (r *userRepository) LoyaltyHistory(userID uint) ([]models.LoyaltyTransaction, error) {
	var entries []models.LoyaltyTransaction
	if err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
