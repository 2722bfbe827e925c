// Package migrations embute os scripts goose do schema de filialen.
package migrations

import (
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

// Run executa um comando goose (up, down, status, ...) sobre os scripts embutidos.
func Run(db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Run(command, db, ".", args...)
}
