package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

// ArticleRepo lectura del catálogo de artículos.
type ArticleRepo struct {
	q Querier
}

// NewArticleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

// GetByID obtiene un artículo; (nil, nil) si no existe.
func (r *ArticleRepo) GetByID(ctx context.Context, id int64) (*entity.Article, error) {
	query := `
		SELECT article_id, code, name, size, group_code, measure_code, unit_code,
		       stock_min, stock_max, status, supplier_id, created_at, updated_at
		FROM articulos WHERE article_id = $1`
	var a entity.Article
	err := r.q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Code, &a.Name, &a.Size, &a.GroupCode, &a.MeasureCode, &a.UnitCode,
		&a.StockMin, &a.StockMax, &a.Status, &a.SupplierID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get articulo: %w", err)
	}
	return &a, nil
}

// ExistingIDs subconjunto de ids presentes en el catálogo.
func (r *ArticleRepo) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := psql.Select("article_id").
		From("articulos").
		Where(squirrel.Eq{"article_id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build existing articulos: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("existing articulos: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan articulo: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}
