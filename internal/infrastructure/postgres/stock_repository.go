package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// stockOfArticle stock = Σentradas − Σsalidas + Σajustes del artículo a.
// SUM(bigint) devuelve numeric; el cast deja el resultado en int64.
const stockOfArticle = `(
	COALESCE((SELECT SUM(e.quantity) FROM entradas e WHERE e.article_id = a.article_id), 0)
	- COALESCE((SELECT SUM(s.quantity) FROM salidas s WHERE s.article_id = a.article_id), 0)
	+ COALESCE((SELECT SUM(j.quantity) FROM ajustes j WHERE j.article_id = a.article_id), 0)
)::bigint`

// StockRepo existencias calculadas desde las tablas de movimientos (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// CurrentStock stock de un artículo; 0 si no tiene movimientos.
func (r *StockRepo) CurrentStock(ctx context.Context, articleID int64) (int64, error) {
	query := `
		SELECT (
			COALESCE((SELECT SUM(quantity) FROM entradas WHERE article_id = $1), 0)
			- COALESCE((SELECT SUM(quantity) FROM salidas WHERE article_id = $1), 0)
			+ COALESCE((SELECT SUM(quantity) FROM ajustes WHERE article_id = $1), 0)
		)::bigint`
	var stock int64
	if err := r.q.QueryRow(ctx, query, articleID).Scan(&stock); err != nil {
		return 0, fmt.Errorf("current stock: %w", err)
	}
	return stock, nil
}

// BulkStock stock de varios artículos en una sola consulta.
func (r *StockRepo) BulkStock(ctx context.Context, articleIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(articleIDs))
	if len(articleIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT m.article_id, COALESCE(SUM(m.qty), 0)::bigint
		FROM (
			SELECT article_id, quantity AS qty FROM entradas WHERE article_id = ANY($1)
			UNION ALL
			SELECT article_id, -quantity FROM salidas WHERE article_id = ANY($1)
			UNION ALL
			SELECT article_id, quantity FROM ajustes WHERE article_id = ANY($1)
		) m
		GROUP BY m.article_id`
	rows, err := r.q.Query(ctx, query, articleIDs)
	if err != nil {
		return nil, fmt.Errorf("bulk stock: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, stock int64
		if err := rows.Scan(&id, &stock); err != nil {
			return nil, fmt.Errorf("scan bulk stock: %w", err)
		}
		out[id] = stock
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bulk stock: %w", err)
	}
	for _, id := range articleIDs {
		if _, ok := out[id]; !ok {
			out[id] = 0
		}
	}
	return out, nil
}

// ListStock artículos activos con su stock, filtrables por texto y bajo mínimo.
func (r *StockRepo) ListStock(ctx context.Context, f repository.StockFilter) ([]repository.StockRow, error) {
	sb := psql.Select(
		"a.article_id", "a.code", "a.name", "a.size", "a.unit_code", "a.stock_min", "a.stock_max",
		stockOfArticle+" AS stock",
	).
		From("articulos a").
		Where(squirrel.Eq{"a.status": entity.ArticleStatusActive}).
		OrderBy("a.code")
	if f.Search != "" {
		like := "%" + f.Search + "%"
		sb = sb.Where(squirrel.Or{
			squirrel.ILike{"a.code": like},
			squirrel.ILike{"a.name": like},
		})
	}
	if f.OnlyLowStock {
		sb = sb.Where(squirrel.Expr(stockOfArticle + " < a.stock_min"))
	}
	if f.Limit > 0 {
		sb = sb.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		sb = sb.Offset(uint64(f.Offset))
	}
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list stock: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var out []repository.StockRow
	for rows.Next() {
		var s repository.StockRow
		if err := rows.Scan(&s.ArticleID, &s.Code, &s.Name, &s.Size, &s.UnitCode, &s.StockMin, &s.StockMax, &s.Stock); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// LockArticles toma pg_advisory_xact_lock por artículo en el orden recibido.
// Los locks se liberan solos al terminar la transacción; fuera de una tx no protegen nada.
func (r *StockRepo) LockArticles(ctx context.Context, articleIDs []int64) error {
	for _, id := range articleIDs {
		if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, id); err != nil {
			return fmt.Errorf("lock articulo %d: %w", id, err)
		}
	}
	return nil
}

// Kardex últimos movimientos del artículo en orden cronológico con saldo acumulado.
func (r *StockRepo) Kardex(ctx context.Context, articleID int64, limit int) ([]entity.Movement, error) {
	query := `
		SELECT tipo, id, article_id, qty, referencia, usuario_id, created_at, saldo
		FROM (
			SELECT k.*, SUM(k.qty) OVER (ORDER BY k.created_at, k.orden, k.id)::bigint AS saldo
			FROM (
				SELECT 'ENTRADA' AS tipo, entrada_id AS id, article_id, quantity AS qty,
				       COALESCE(NULLIF(invoice_number, ''), supplier) AS referencia,
				       COALESCE(usuario_id, 0) AS usuario_id, created_at, 1 AS orden
				FROM entradas WHERE article_id = $1
				UNION ALL
				SELECT 'SALIDA', salida_id, article_id, -quantity, reason, COALESCE(usuario_id, 0), created_at, 2
				FROM salidas WHERE article_id = $1
				UNION ALL
				SELECT 'AJUSTE', ajuste_id, article_id, quantity, reason, COALESCE(usuario_id, 0), created_at, 3
				FROM ajustes WHERE article_id = $1
			) k
		) h
		ORDER BY created_at DESC, orden DESC, id DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, articleID, limit)
	if err != nil {
		return nil, fmt.Errorf("kardex: %w", err)
	}
	defer rows.Close()
	var out []entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(&m.Type, &m.ID, &m.ArticleID, &m.Quantity, &m.Reference, &m.UserID, &m.CreatedAt, &m.Balance); err != nil {
			return nil, fmt.Errorf("scan kardex: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kardex: %w", err)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
