// Package migrations embeds the SQL schema migrations. The statements are
// written to run unchanged on PostgreSQL and SQLite.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
