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
		log.Println("creating price_history table...")
		return mghelper.CreateSchemaWithFKs(ctx, db, &marketstore.PriceHistoryDao{},
			`("coin_id") REFERENCES "coins" ("id") ON DELETE CASCADE`,
		)
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping price_history table...")
		return mghelper.DropTables(ctx, db, &marketstore.PriceHistoryDao{})
	})
}
