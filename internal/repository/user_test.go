package repository

import (
	"fmt"
	"testing"

	"github.com/abhishek9871/nesteryrelease-sub001/internal/database"
	"github.com/abhishek9871/nesteryrelease-sub001/internal/models"
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

// User writes must work against a schema created by AutoMigrateAll alone;
// the model must not carry fields the migrated table lacks.
func TestUserPersistsOnFreshSchema(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)

	user := &models.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed",
		Role:         string(models.UserRoleUser),
	}
	require.NoError(t, users.Create(user))
	require.NotZero(t, user.ID)

	user.PhoneNumber = "+4915123456789"
	require.NoError(t, users.Save(user))

	found, err := users.FindByEmail("alice@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)
	require.Equal(t, "+4915123456789", found.PhoneNumber)
}

func TestAddLoyaltyPointsWritesLedger(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)

	user := &models.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hashed",
		Role:         string(models.UserRoleUser),
	}
	require.NoError(t, users.Create(user))

	require.NoError(t, users.AddLoyaltyPoints(user.ID, 300, models.LoyaltyTransactionEarn, nil, "earned"))
	require.NoError(t, users.AddLoyaltyPoints(user.ID, -120, models.LoyaltyTransactionRedeem, nil, "redeemed"))

	found, err := users.FindByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, 180, found.LoyaltyPoints)

	history, err := users.LoyaltyHistory(user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Unknown users must not gain ledger entries
	err = users.AddLoyaltyPoints(9999, 10, models.LoyaltyTransactionEarn, nil, "phantom")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
