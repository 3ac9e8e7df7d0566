package database

import (
	"github.com/abhishek9871/nesteryrelease-sub001/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	if err := AutoMigrateAll(db); err != nil {
		return err
	}

	// Update users table for databases created before loyalty shipped
	if db.Migrator().HasTable(&models.User{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS loyalty_points integer DEFAULT 0",
			"ADD COLUMN IF NOT EXISTS is_premium boolean DEFAULT false",
			"ADD COLUMN IF NOT EXISTS role text DEFAULT 'user'",
		}

		for _, column := range columns {
			if err := db.Exec("ALTER TABLE users " + column).Error; err != nil {
				return err
			}
		}

		// Update constraint
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('user', 'host', 'admin'))`)
	}

	if db.Migrator().HasTable(&models.Booking{}) {
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
		db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('pending', 'confirmed', 'cancelled', 'completed'))`)
	}

	return nil
}
