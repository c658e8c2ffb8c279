// Package migrations embeds the SQL migrations so binaries and tests can run
// them without a checkout.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files
//
//go:embed *.sql
var FS embed.FS
