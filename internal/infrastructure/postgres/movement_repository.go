package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo inserciones append-only en entradas, salidas y ajustes.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// CreateEntry inserta una entrada y asigna ID y fecha.
func (r *MovementRepo) CreateEntry(ctx context.Context, e *entity.Entry) error {
	query := `
		INSERT INTO entradas (article_id, quantity, unit_cost, invoice_number, supplier, usuario_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING entrada_id, created_at`
	err := r.q.QueryRow(ctx, query,
		e.ArticleID, e.Quantity, e.UnitCost, e.InvoiceNumber, e.Supplier, nullableID(e.UserID),
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return movementError("insert entrada", err)
	}
	return nil
}

// CreateExit inserta una salida y asigna ID y fecha.
func (r *MovementRepo) CreateExit(ctx context.Context, e *entity.Exit) error {
	query := `
		INSERT INTO salidas (article_id, quantity, reason, usuario_id, solicitud_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING salida_id, created_at`
	err := r.q.QueryRow(ctx, query,
		e.ArticleID, e.Quantity, e.Reason, nullableID(e.UserID), e.SolicitudID,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return movementError("insert salida", err)
	}
	return nil
}

// CreateAdjustment inserta un ajuste con signo y asigna ID y fecha.
func (r *MovementRepo) CreateAdjustment(ctx context.Context, a *entity.Adjustment) error {
	query := `
		INSERT INTO ajustes (article_id, quantity, reason, usuario_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ajuste_id, created_at`
	err := r.q.QueryRow(ctx, query,
		a.ArticleID, a.Quantity, a.Reason, nullableID(a.UserID),
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return movementError("insert ajuste", err)
	}
	return nil
}

// ListExitsBySolicitud salidas generadas por una solicitud.
func (r *MovementRepo) ListExitsBySolicitud(ctx context.Context, solicitudID int64) ([]*entity.Exit, error) {
	query := `
		SELECT salida_id, article_id, quantity, reason, COALESCE(usuario_id, 0), solicitud_id, created_at
		FROM salidas WHERE solicitud_id = $1
		ORDER BY salida_id`
	rows, err := r.q.Query(ctx, query, solicitudID)
	if err != nil {
		return nil, fmt.Errorf("list salidas por solicitud: %w", err)
	}
	defer rows.Close()
	var out []*entity.Exit
	for rows.Next() {
		var e entity.Exit
		if err := rows.Scan(&e.ID, &e.ArticleID, &e.Quantity, &e.Reason, &e.UserID, &e.SolicitudID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan salida: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func movementError(op string, err error) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%s: artículo o usuario inexistente: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
