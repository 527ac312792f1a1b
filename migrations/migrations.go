// Package migrations embeds the SQL schema migrations so that the
// migrate CLI and the test harness run from the same source.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
