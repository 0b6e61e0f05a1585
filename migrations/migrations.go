// Package migrations contiene el esquema SQL versionado (golang-migrate) embebido en el binario.
package migrations

import "embed"

// FS archivos NNNNNN_nombre.{up,down}.sql.
//
//go:embed *.sql
var FS embed.FS
