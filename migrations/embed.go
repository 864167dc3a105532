// Package migrations embeds the goose SQL migrations so the server,
// the migrate command, and the test helper all apply the same schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
