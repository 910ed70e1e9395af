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
		log.Println("creating sessions table...")
		return mghelper.CreateSchemaWithFKs(ctx, db, &userstore.SessionDao{},
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		)
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping sessions table...")
		return mghelper.DropTables(ctx, db, &userstore.SessionDao{})
	})
}
