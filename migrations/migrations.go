// Package migrations holds the PostgreSQL schema.
package migrations

import _ "embed"

//go:embed 001_init.up.sql
var InitSQL string
