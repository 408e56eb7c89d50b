package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver "pgx" para database/sql (goose)
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres/migrations"
	"github.com/jhoicas/almacen-api/pkg/config"
)

// OpenMigrator abre una conexión database/sql y un provider de goose sobre las
// migraciones embebidas. El llamador cierra la *sql.DB.
func OpenMigrator(cfg config.DBConfig) (*goose.Provider, *sql.DB, error) {
	db, err := sql.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("goose new provider: %w", err)
	}
	return provider, db, nil
}
