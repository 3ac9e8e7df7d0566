package repository

import (
	"time"

	"github.com/abhishek9871/nesteryrelease-sub001/internal/models"
	"gorm.io/gorm"
)

// AffiliateRepository persists partners, their tracked clicks and the
// commissions owed to them.
type AffiliateRepository interface {
	CreatePartner(partner *models.AffiliatePartner) error
	FindPartnerByID(id uint) (*models.AffiliatePartner, error)
	FindPartnerByTrackingCode(code string) (*models.AffiliatePartner, error)
	CreateClick(click *models.AffiliateClick) error
	// CountRecentClicks counts clicks from one IP for one partner since the
	// given time, used as the de-duplication fallback when redis is down.
	CountRecentClicks(partnerID uint, ip string, since time.Time) (int64, error)
	CountClicks(partnerID uint, suspect bool) (int64, error)
	CreateCommission(commission *models.AffiliateCommission) error
	CommissionsByPartner(partnerID uint) ([]models.AffiliateCommission, error)
}

type affiliateRepository struct {
	db *gorm.DB
}

func NewAffiliateRepository(db *gorm.DB) AffiliateRepository {
	return &affiliateRepository{db: db}
}

func (r *affiliateRepository) CreatePartner(partner *models.AffiliatePartner) error {
	return r.db.Create(partner).Error
}

func (r *affiliateRepository) FindPartnerByID(id uint) (*models.AffiliatePartner, error) {
	var partner models.AffiliatePartner
	if err := r.db.First(&partner, id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *affiliateRepository) FindPartnerByTrackingCode(code string) (*models.AffiliatePartner, error) {
	var partner models.AffiliatePartner
	if err := r.db.Where("tracking_code = ?", code).First(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *affiliateRepository) CreateClick(click *models.AffiliateClick) error {
	return r.db.Create(click).Error
}

func (r *affiliateRepository) CountRecentClicks(partnerID uint, ip string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.AffiliateClick{}).
		Where("partner_id = ? AND ip_address = ? AND created_at > ?", partnerID, ip, since).
		Count(&count).Error
	return count, err
}

func (r *affiliateRepository) CountClicks(partnerID uint, suspect bool) (int64, error) {
	var count int64
	err := r.db.Model(&models.AffiliateClick{}).
		Where("partner_id = ? AND suspect = ?", partnerID, suspect).
		Count(&count).Error
	return count, err
}

func (r *affiliateRepository) CreateCommission(commission *models.AffiliateCommission) error {
	return r.db.Create(commission).Error
}

func (r *affiliateRepository) CommissionsByPartner(partnerID uint) ([]models.AffiliateCommission, error) {
	var commissions []models.AffiliateCommission
	if err := r.db.
		Where("partner_id = ?", partnerID).
		Order("created_at DESC").
		Find(&commissions).Error; err != nil {
		return nil, err
	}
	return commissions, nil
}
