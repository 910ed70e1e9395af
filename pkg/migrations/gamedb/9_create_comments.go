package gamedb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/bussin-exchange/market-middleware/pkg/commentstore"
	mghelper "github.com/bussin-exchange/market-middleware/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating comments table...")
		if err := mghelper.CreateSchemaWithFKs(ctx, db, &commentstore.CommentDao{},
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			`("coin_id") REFERENCES "coins" ("id") ON DELETE CASCADE`,
		); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &commentstore.CommentDao{}, "user_id", "coin_id")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping comments table...")
		return mghelper.DropTables(ctx, db, &commentstore.CommentDao{})
	})
}
