package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// MovementRepository persistencia append-only de entradas, salidas y ajustes.
// No expone Update ni Delete: las correcciones se hacen con ajustes.
type MovementRepository interface {
	CreateEntry(ctx context.Context, e *entity.Entry) error
	CreateExit(ctx context.Context, e *entity.Exit) error
	CreateAdjustment(ctx context.Context, a *entity.Adjustment) error
	ListExitsBySolicitud(ctx context.Context, solicitudID int64) ([]*entity.Exit, error)
}
