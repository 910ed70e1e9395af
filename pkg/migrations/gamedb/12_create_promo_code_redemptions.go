package gamedb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	mghelper "github.com/bussin-exchange/market-middleware/pkg/pgutil/migrations"
	"github.com/bussin-exchange/market-middleware/pkg/promostore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating promo_code_redemptions table...")
		// The composite unique on (user_id, promo_code_id) comes from the
		// model tags and is the only guard against double redemption.
		return mghelper.CreateSchemaWithFKs(ctx, db, &promostore.RedemptionDao{},
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			`("promo_code_id") REFERENCES "promo_codes" ("id") ON DELETE CASCADE`,
		)
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping promo_code_redemptions table...")
		return mghelper.DropTables(ctx, db, &promostore.RedemptionDao{})
	})
}
