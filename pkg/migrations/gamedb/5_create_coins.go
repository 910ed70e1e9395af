package gamedb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/bussin-exchange/market-middleware/pkg/marketstore"
	mghelper "github.com/bussin-exchange/market-middleware/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating coins table...")
		// Coins outlive their creator, so the FK nullifies instead of cascading.
		return mghelper.CreateSchemaWithFKs(ctx, db, &marketstore.CoinDao{},
			`("creator_id") REFERENCES "users" ("id") ON DELETE SET NULL`,
		)
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping coins table...")
		return mghelper.DropTables(ctx, db, &marketstore.CoinDao{})
	})
}
