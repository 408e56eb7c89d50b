package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo agregados de solo lectura sobre solicitudes.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// CountByEstado número de solicitudes en el estado.
func (r *DashboardRepo) CountByEstado(ctx context.Context, estado entity.Estado) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM solicitudes WHERE estado = $1`, string(estado)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count por estado: %w", err)
	}
	return n, nil
}

// CountDecided solicitudes en el estado cuya última actualización cae en [from, to).
func (r *DashboardRepo) CountDecided(ctx context.Context, estado entity.Estado, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM solicitudes
		WHERE estado = $1 AND updated_at >= $2 AND updated_at < $3`
	var n int
	if err := r.q.QueryRow(ctx, query, string(estado), from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("count decididas: %w", err)
	}
	return n, nil
}

// CountCreated solicitudes creadas en [from, to).
func (r *DashboardRepo) CountCreated(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM solicitudes WHERE created_at >= $1 AND created_at < $2`, from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count creadas: %w", err)
	}
	return n, nil
}

// AvgResponseHours horas promedio entre creación y decisión; 0 sin filas.
func (r *DashboardRepo) AvgResponseHours(ctx context.Context, since time.Time) (float64, error) {
	query := `
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (updated_at - created_at)) / 3600.0), 0)::float8
		FROM solicitudes
		WHERE estado IN ('AUTORIZADA', 'RECHAZADA') AND updated_at >= $1`
	var avg float64
	if err := r.q.QueryRow(ctx, query, since).Scan(&avg); err != nil {
		return 0, fmt.Errorf("promedio de respuesta: %w", err)
	}
	return avg, nil
}

// RecentPending pendientes más antiguas primero con su número de partidas.
func (r *DashboardRepo) RecentPending(ctx context.Context, limit int) ([]repository.PendingRow, error) {
	query := `
		SELECT s.solicitud_id, s.folio, s.tipo, COALESCE(u.nombre, ''), s.created_at,
		       (SELECT COUNT(*) FROM solicitud_items i WHERE i.solicitud_id = s.solicitud_id)::int
		FROM solicitudes s
		LEFT JOIN usuarios u ON u.usuario_id = s.usuario_solicita_id
		WHERE s.estado = 'PENDIENTE'
		ORDER BY s.created_at ASC, s.solicitud_id ASC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pendientes recientes: %w", err)
	}
	defer rows.Close()
	var out []repository.PendingRow
	for rows.Next() {
		var (
			p    repository.PendingRow
			tipo string
		)
		if err := rows.Scan(&p.ID, &p.Folio, &tipo, &p.SolicitanteNombre, &p.CreatedAt, &p.ItemCount); err != nil {
			return nil, fmt.Errorf("scan pendiente: %w", err)
		}
		p.Tipo = entity.SolicitudTipo(tipo)
		out = append(out, p)
	}
	return out, rows.Err()
}
