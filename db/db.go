// Package db embeds the goose migrations applied on startup.
package db

import "embed"

// Migrations holds the SQL migration files under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
