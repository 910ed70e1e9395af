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
		log.Println("creating comment_likes table...")
		return mghelper.CreateSchemaWithFKs(ctx, db, &commentstore.CommentLikeDao{},
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			`("comment_id") REFERENCES "comments" ("id") ON DELETE CASCADE`,
		)
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping comment_likes table...")
		return mghelper.DropTables(ctx, db, &commentstore.CommentLikeDao{})
	})
}
