// Package promo holds the promotional reward code domain model.
package promo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Code is a redeemable promotional code. MaxUses of nil means unlimited,
// ExpiresAt of nil means the code never expires.
type Code struct {
	ID           int64
	Code         string
	Description  string
	RewardAmount decimal.Decimal
	MaxUses      *int
	IsActive     bool
	ExpiresAt    *time.Time
	CreatedBy    *int64
	CreatedAt    time.Time
}

// Redemption records one user redeeming one code. The (user, code) pair is
// unique at the storage layer; that constraint is the only double-redemption
// guard.
type Redemption struct {
	ID           int64
	UserID       int64
	PromoCodeID  int64
	RewardAmount decimal.Decimal
	RedeemedAt   time.Time
}
