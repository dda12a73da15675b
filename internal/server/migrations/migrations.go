// Package migrations embeds the goose SQL migrations applied at startup and
// by `campctl migrate`.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
