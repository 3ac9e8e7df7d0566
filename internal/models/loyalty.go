package models

import "time"

type LoyaltyTransactionType string

const (
	LoyaltyTransactionEarn               LoyaltyTransactionType = "earn"
	LoyaltyTransactionRedeem             LoyaltyTransactionType = "redeem"
	LoyaltyTransactionCancellationCredit LoyaltyTransactionType = "cancellation_credit"
	LoyaltyTransactionCancellationDebit  LoyaltyTransactionType = "cancellation_debit"
)

// LoyaltyTransaction is one entry in a user's point ledger. Points is the
// signed delta applied to the balance; BalanceAfter is the balance the
// update produced.
type LoyaltyTransaction struct {
	ID           uint                   `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       uint                   `json:"userId" gorm:"not null;index"`
	Points       int                    `json:"points" gorm:"not null"`
	BalanceAfter int                    `json:"balanceAfter" gorm:"not null"`
	Type         LoyaltyTransactionType `json:"type" gorm:"not null"`
	BookingID    *uint                  `json:"bookingId,omitempty" gorm:"index"`
	Description  string                 `json:"description"`
	CreatedAt    time.Time              `json:"createdAt"`
}

// TableName specifies the table name
func (LoyaltyTransaction) TableName() string {
	return "loyalty_transactions"
}
