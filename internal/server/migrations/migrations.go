// Package migrations embeds the goose SQL migrations of the portfolio schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
