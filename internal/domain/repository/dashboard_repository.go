package repository

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PendingRow solicitud pendiente con su número de partidas.
type PendingRow struct {
	ID                int64
	Folio             string
	Tipo              entity.SolicitudTipo
	SolicitanteNombre string
	CreatedAt         time.Time
	ItemCount         int
}

// DashboardRepository agregados de solo lectura sobre solicitudes.
type DashboardRepository interface {
	CountByEstado(ctx context.Context, estado entity.Estado) (int, error)
	// CountDecided cuenta solicitudes en estado cuya última actualización cae en [from, to).
	CountDecided(ctx context.Context, estado entity.Estado, from, to time.Time) (int, error)
	CountCreated(ctx context.Context, from, to time.Time) (int, error)
	// AvgResponseHours promedio de (updated_at − created_at) en horas de las
	// decididas desde since; 0 si no hay filas.
	AvgResponseHours(ctx context.Context, since time.Time) (float64, error)
	RecentPending(ctx context.Context, limit int) ([]PendingRow, error)
}
