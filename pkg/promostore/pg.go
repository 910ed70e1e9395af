package promostore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/bussin-exchange/market-middleware/internal/metrics"
	"github.com/bussin-exchange/market-middleware/pkg/pgutil"
	"github.com/bussin-exchange/market-middleware/pkg/promo"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the promo store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateCode(ctx context.Context, c *promo.Code) error {
	dao := toCodeDao(c)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		if pgutil.UniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateCode, c.Code)
		}
		return fmt.Errorf("failed to create promo code: %w", err)
	}

	c.ID = dao.ID
	c.CreatedAt = dao.CreatedAt
	return nil
}

func (s *pgStore) GetByCode(ctx context.Context, code string) (*promo.Code, error) {
	dao := new(PromoCodeDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("code = ?", code).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}
	return toCode(dao), nil
}

func (s *pgStore) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.NewUpdate().
		Model((*PromoCodeDao)(nil)).
		Set("is_active = ?", active).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update promo code: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCodeNotFound
	}
	return nil
}

// Redeem inserts the redemption row and credits the reward inside one
// transaction. If a concurrent attempt for the same (user, code) pair got
// there first, the unique constraint fires, the transaction rolls back
// and no balance is credited.
func (s *pgStore) Redeem(ctx context.Context, userID int64, code *promo.Code) (*promo.Redemption, error) {
	dao := &RedemptionDao{
		UserID:       userID,
		PromoCodeID:  code.ID,
		RewardAmount: code.RewardAmount,
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().
			Model(dao).
			Returning("id, redeemed_at").
			Exec(ctx); err != nil {
			if pgutil.UniqueViolation(err) {
				return ErrAlreadyRedeemed
			}
			return fmt.Errorf("failed to insert redemption: %w", err)
		}

		if _, err := tx.NewUpdate().
			TableExpr("users").
			Set("base_currency_balance = base_currency_balance + ?::DECIMAL", code.RewardAmount.String()).
			Set("updated_at = NOW()").
			Where("id = ?", userID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to credit reward: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyRedeemed) {
			metrics.PromoRedemptions.WithLabelValues("duplicate").Inc()
		} else {
			metrics.PromoRedemptions.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	metrics.PromoRedemptions.WithLabelValues("ok").Inc()
	return toRedemption(dao), nil
}

func (s *pgStore) CountRedemptions(ctx context.Context, codeID int64) (int, error) {
	count, err := s.db.NewSelect().
		Model((*RedemptionDao)(nil)).
		Where("promo_code_id = ?", codeID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count redemptions: %w", err)
	}
	return count, nil
}

func (s *pgStore) ListRedemptionsByUser(ctx context.Context, userID int64) ([]*promo.Redemption, error) {
	var daos []RedemptionDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("user_id = ?", userID).
		Order("redeemed_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list redemptions: %w", err)
	}
	redemptions := make([]*promo.Redemption, len(daos))
	for i := range daos {
		redemptions[i] = toRedemption(&daos[i])
	}
	return redemptions, nil
}
