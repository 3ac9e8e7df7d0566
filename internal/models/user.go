package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleHost  UserRole = "host"
	UserRoleAdmin UserRole = "admin"
)

type User struct {
	gorm.Model
	Email         string `json:"email" gorm:"column:email;unique;not null"`
	PasswordHash  string `json:"-" gorm:"column:password_hash;not null"`
	Name          string `json:"name" gorm:"column:name;not null"`
	PhoneNumber   string `json:"phoneNumber" gorm:"column:phone_number"`
	Role          string `json:"role" gorm:"column:role;not null;default:'user'"`
	LoyaltyPoints int    `json:"loyaltyPoints" gorm:"column:loyalty_points;not null;default:0"`
	IsPremium     bool   `json:"isPremium" gorm:"column:is_premium;not null;default:false"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
