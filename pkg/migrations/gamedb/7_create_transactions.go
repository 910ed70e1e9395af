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
		log.Println("creating transactions table...")
		if _, err := db.ExecContext(ctx, `
			DO $$ BEGIN
				CREATE TYPE transaction_type AS ENUM ('BUY', 'SELL');
			EXCEPTION
				WHEN duplicate_object THEN NULL;
			END $$;
		`); err != nil {
			return err
		}
		return mghelper.CreateSchemaWithFKs(ctx, db, &marketstore.TradeDao{},
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			`("coin_id") REFERENCES "coins" ("id") ON DELETE CASCADE`,
		)
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping transactions table...")
		if err := mghelper.DropTables(ctx, db, &marketstore.TradeDao{}); err != nil {
			return err
		}
		_, err := db.ExecContext(ctx, `DROP TYPE IF EXISTS transaction_type`)
		return err
	})
}
