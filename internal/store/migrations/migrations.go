// Package migrations embeds the goose SQL migrations that version the
// local store schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
