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
		log.Println("creating promo_codes table...")
		return mghelper.CreateSchemaWithFKs(ctx, db, &promostore.PromoCodeDao{},
			`("created_by") REFERENCES "users" ("id") ON DELETE SET NULL`,
		)
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping promo_codes table...")
		return mghelper.DropTables(ctx, db, &promostore.PromoCodeDao{})
	})
}
