package gamedb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	mghelper "github.com/bussin-exchange/market-middleware/pkg/pgutil/migrations"
	"github.com/bussin-exchange/market-middleware/pkg/userstore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating accounts table...")
		return mghelper.CreateSchemaWithFKs(ctx, db, &userstore.AccountDao{},
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		)
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping accounts table...")
		return mghelper.DropTables(ctx, db, &userstore.AccountDao{})
	})
}
