package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/application/permission"
	"github.com/jhoicas/almacen-api/internal/application/solicitud"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var (
	_ stock.TxRunner      = (*TxRunner)(nil)
	_ solicitud.TxRunner  = (*TxRunner)(nil)
	_ permission.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db TxBeginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db TxBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit.
// Cualquier error de fn deja la transacción en Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := repository.TxRepos{
		Movements:   NewMovementRepository(tx),
		Stock:       NewStockRepository(tx),
		Solicitudes: NewSolicitudRepository(tx),
		Users:       NewUserRepository(tx),
		Permissions: NewPermissionRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
