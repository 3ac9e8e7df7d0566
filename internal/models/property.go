package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property represents a bookable listing owned by a host
type Property struct {
	gorm.Model
	HostID      uint           `json:"hostId" gorm:"not null;index"`
	Host        *User          `json:"host,omitempty" gorm:"foreignKey:HostID"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Address     string         `json:"address"`
	City        string         `json:"city" gorm:"index"`
	Country     string         `json:"country"`
	BasePrice   float64        `json:"basePrice" gorm:"not null"`
	Currency    string         `json:"currency" gorm:"size:3;not null;default:'USD'"`
	MaxGuests   int            `json:"maxGuests" gorm:"not null;default:1"`
	Images      datatypes.JSON `json:"images"`
	IsActive    bool           `json:"isActive" gorm:"not null;default:true"`
}

// TableName specifies the table name
func (Property) TableName() string {
	return "properties"
}
