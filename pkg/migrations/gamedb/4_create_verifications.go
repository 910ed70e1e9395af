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
		log.Println("creating verifications table...")
		if err := mghelper.CreateSchema(ctx, db, &userstore.VerificationDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &userstore.VerificationDao{}, "identifier")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping verifications table...")
		return mghelper.DropTables(ctx, db, &userstore.VerificationDao{})
	})
}
