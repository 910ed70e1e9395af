package promostore

import (
	"context"
	"errors"

	"github.com/bussin-exchange/market-middleware/pkg/promo"
)

// ErrCodeNotFound is returned when a code lookup finds no matching record.
var ErrCodeNotFound = errors.New("promo code not found")

// ErrDuplicateCode is returned when a code insert collides with an
// existing code string.
var ErrDuplicateCode = errors.New("promo code already exists")

// ErrAlreadyRedeemed is returned when a user redeems a code a second time.
// Under N concurrent attempts for the same (user, code) pair exactly one
// succeeds; the rest get this error.
var ErrAlreadyRedeemed = errors.New("promo code already redeemed")

// Store defines the interface for promo code and redemption persistence.
type Store interface {
	CreateCode(ctx context.Context, c *promo.Code) error
	GetByCode(ctx context.Context, code string) (*promo.Code, error)
	SetActive(ctx context.Context, id int64, active bool) error

	// Redeem atomically records the redemption and credits the reward to
	// the user's balance. Double redemption is rejected by the storage
	// layer's unique constraint, never by a prior read.
	Redeem(ctx context.Context, userID int64, code *promo.Code) (*promo.Redemption, error)

	CountRedemptions(ctx context.Context, codeID int64) (int, error)
	ListRedemptionsByUser(ctx context.Context, userID int64) ([]*promo.Redemption, error)
}
