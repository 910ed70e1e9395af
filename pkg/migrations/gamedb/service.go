// Package gamedb holds all the migrations for the game database
package gamedb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the game database
var Migrations = migrate.NewMigrations()
