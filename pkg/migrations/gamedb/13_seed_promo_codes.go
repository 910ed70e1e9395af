package gamedb

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/bussin-exchange/market-middleware/pkg/promostore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("seeding promo_codes table...")
		welcome := "Welcome bonus for new players"
		_, err := db.NewInsert().
			Model(&promostore.PromoCodeDao{
				Code:         "WELCOME",
				Description:  &welcome,
				RewardAmount: decimal.RequireFromString("1000.00000000"),
				IsActive:     true,
			}).
			On("CONFLICT (code) DO NOTHING").
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("removing seed data from promo_codes table...")
		_, err := db.NewDelete().
			Model((*promostore.PromoCodeDao)(nil)).
			Where("code = 'WELCOME'").
			Exec(ctx)
		return err
	})
}
