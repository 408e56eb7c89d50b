package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItemDTO fila de GET /api/almacen/stock.
type StockItemDTO struct {
	ArticleID  int64  `json:"article_id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Size       string `json:"size,omitempty"`
	UnitCode   string `json:"unit_code,omitempty"`
	StockMin   int64  `json:"stock_min"`
	StockMax   int64  `json:"stock_max"`
	Stock      int64  `json:"stock"`
	BajoMinimo bool   `json:"bajo_minimo"`
}

// ValidateStockRequest body de POST /api/almacen/validar-stock.
type ValidateStockRequest struct {
	ArticleID int64 `json:"article_id"`
	Quantity  int64 `json:"quantity"`
}

// StockValidationDTO resultado de una validación de stock.
// StockRestante puede ser negativo cuando no alcanza.
type StockValidationDTO struct {
	ArticleID       int64 `json:"article_id"`
	Quantity        int64 `json:"quantity"`
	StockSuficiente bool  `json:"stockSuficiente"`
	StockActual     int64 `json:"stockActual"`
	StockRestante   int64 `json:"stockRestante"`
}

// ValidateStockManyRequest body de POST /api/almacen/validar-stock-multiple.
type ValidateStockManyRequest struct {
	Items []ValidateStockRequest `json:"items"`
}

// StockValidationManyDTO resultado de la validación por lote.
type StockValidationManyDTO struct {
	TodoStockSuficiente bool                 `json:"todoStockSuficiente"`
	Validaciones        []StockValidationDTO `json:"validaciones"`
	ItemsSinStock       []StockValidationDTO `json:"itemsSinStock"`
}

// RegisterEntryRequest body de POST /api/almacen/entradas.
type RegisterEntryRequest struct {
	ArticleID     int64           `json:"article_id"`
	Quantity      int64           `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	InvoiceNumber string          `json:"invoice_number"`
	Supplier      string          `json:"supplier"`
}

// RegisterExitRequest body de POST /api/almacen/salidas.
type RegisterExitRequest struct {
	ArticleID int64  `json:"article_id"`
	Quantity  int64  `json:"quantity"`
	Reason    string `json:"reason"`
	UserID    int64  `json:"user_id"`
}

// RegisterAdjustmentRequest body de POST /api/almacen/ajustes.
type RegisterAdjustmentRequest struct {
	ArticleID int64  `json:"article_id"`
	Quantity  int64  `json:"quantity"`
	Reason    string `json:"reason"`
}

// MovementCreatedDTO respuesta de alta de un movimiento.
type MovementCreatedDTO struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
	Stock   int64 `json:"stock"`
}

// KardexRowDTO fila del kardex de un artículo.
type KardexRowDTO struct {
	Type      string    `json:"tipo"`
	ID        int64     `json:"id"`
	Quantity  int64     `json:"cantidad"`
	Reference string    `json:"referencia"`
	UserID    int64     `json:"usuario_id"`
	CreatedAt time.Time `json:"fecha"`
	Balance   int64     `json:"saldo"`
}
