package repository

import (
	"github.com/abhishek9871/nesteryrelease-sub001/internal/models"
	"gorm.io/gorm"
)

// PropertyFilter narrows property listings. Zero fields are ignored.
type PropertyFilter struct {
	City     string
	MinPrice float64
	MaxPrice float64
	HostID   uint
}

// PropertyRepository is the catalog port. The booking engine only reads it.
type PropertyRepository interface {
	FindByID(id uint) (*models.Property, error)
	Create(property *models.Property) error
	Save(property *models.Property) error
	Delete(id uint) error
	List(filter PropertyFilter, page Pagination) ([]models.Property, int64, error)
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) FindByID(id uint) (*models.Property, error) {
	var property models.Property
	if err := r.db.First(&property, id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) Create(property *models.Property) error {
	return r.db.Create(property).Error
}

func (r *propertyRepository) Save(property *models.Property) error {
	return r.db.Save(property).Error
}

func (r *propertyRepository) Delete(id uint) error {
	return r.db.Delete(&models.Property{}, id).Error
}

func (r *propertyRepository) List(filter PropertyFilter, page Pagination) ([]models.Property, int64, error) {
	query := r.db.Model(&models.Property{}).Where("is_active = ?", true)
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.MinPrice > 0 {
		query = query.Where("base_price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("base_price <= ?", filter.MaxPrice)
	}
	if filter.HostID != 0 {
		query = query.Where("host_id = ?", filter.HostID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var properties []models.Property
	if err := query.
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&properties).Error; err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}
