package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StockFilter filtros del listado de existencias.
type StockFilter struct {
	Search       string // código o nombre (ILIKE)
	OnlyLowStock bool   // stock < stock_min
	Limit        int
	Offset       int
}

// StockRow artículo con su stock calculado.
type StockRow struct {
	ArticleID int64
	Code      string
	Name      string
	Size      string
	UnitCode  string
	StockMin  int64
	StockMax  int64
	Stock     int64
}

// StockRepository calcula existencias agregando directamente las tablas de
// movimientos (sin columna de stock materializada).
type StockRepository interface {
	CurrentStock(ctx context.Context, articleID int64) (int64, error)
	// BulkStock devuelve el stock de cada id; ids sin movimientos valen 0.
	BulkStock(ctx context.Context, articleIDs []int64) (map[int64]int64, error)
	ListStock(ctx context.Context, f StockFilter) ([]StockRow, error)
	// LockArticles serializa escrituras que reducen stock sobre esos artículos
	// hasta el fin de la transacción en curso.
	LockArticles(ctx context.Context, articleIDs []int64) error
	Kardex(ctx context.Context, articleID int64, limit int) ([]entity.Movement, error)
}
