// Package migrations embeds the goose SQL migration files so they ship
// inside the server binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
