// Package migrations holds the goose SQL migrations for trips and stops.
package migrations

import "embed"

// FS is every *.sql migration, for goose.NewProvider. The API applies it on
// start when MIGRATE_ON_START is set; tests apply it in TestMain.
//
//go:embed *.sql
var FS embed.FS
