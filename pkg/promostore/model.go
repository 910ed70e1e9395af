package promostore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/bussin-exchange/market-middleware/pkg/promo"
)

// PromoCodeDao is a data access object that maps directly to the
// 'promo_codes' table in PostgreSQL.
type PromoCodeDao struct {
	bun.BaseModel `bun:"table:promo_codes,alias:pc"`
	ID            int64           `bun:"id,pk,autoincrement"`
	Code          string          `bun:"code,unique,notnull,type:varchar(50)"`
	Description   *string         `bun:"description"`
	RewardAmount  decimal.Decimal `bun:"reward_amount,notnull,type:numeric(20,8)"`
	MaxUses       *int            `bun:"max_uses"`
	IsActive      bool            `bun:"is_active,notnull,default:true"`
	ExpiresAt     *time.Time      `bun:"expires_at"`
	CreatedBy     *int64          `bun:"created_by"`
	CreatedAt     time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// RedemptionDao maps to 'promo_code_redemptions'. The composite unique on
// (user_id, promo_code_id) is the sole double-redemption guard; it has to
// hold under concurrent attempts, so redemption is an insert, never a
// check-then-insert.
type RedemptionDao struct {
	bun.BaseModel `bun:"table:promo_code_redemptions,alias:pcr"`
	ID            int64           `bun:"id,pk,autoincrement"`
	UserID        int64           `bun:"user_id,notnull,unique:user_promo"`
	PromoCodeID   int64           `bun:"promo_code_id,notnull,unique:user_promo"`
	RewardAmount  decimal.Decimal `bun:"reward_amount,notnull,type:numeric(20,8)"`
	RedeemedAt    time.Time       `bun:"redeemed_at,nullzero,notnull,default:current_timestamp"`
}

func toCodeDao(c *promo.Code) *PromoCodeDao {
	dao := &PromoCodeDao{
		ID:           c.ID,
		Code:         c.Code,
		RewardAmount: c.RewardAmount,
		MaxUses:      c.MaxUses,
		IsActive:     c.IsActive,
		ExpiresAt:    c.ExpiresAt,
		CreatedBy:    c.CreatedBy,
	}
	if c.Description != "" {
		dao.Description = &c.Description
	}
	return dao
}

func toCode(dao *PromoCodeDao) *promo.Code {
	c := &promo.Code{
		ID:           dao.ID,
		Code:         dao.Code,
		RewardAmount: dao.RewardAmount,
		MaxUses:      dao.MaxUses,
		IsActive:     dao.IsActive,
		ExpiresAt:    dao.ExpiresAt,
		CreatedBy:    dao.CreatedBy,
		CreatedAt:    dao.CreatedAt,
	}
	if dao.Description != nil {
		c.Description = *dao.Description
	}
	return c
}

func toRedemption(dao *RedemptionDao) *promo.Redemption {
	return &promo.Redemption{
		ID:           dao.ID,
		UserID:       dao.UserID,
		PromoCodeID:  dao.PromoCodeID,
		RewardAmount: dao.RewardAmount,
		RedeemedAt:   dao.RedeemedAt,
	}
}
