// Package migrations contiene el esquema SQL versionado (goose) embebido en el binario.
package migrations

import "embed"

// FS migraciones NNNNN_nombre.sql con anotaciones -- +goose Up / Down.
//
//go:embed *.sql
var FS embed.FS
