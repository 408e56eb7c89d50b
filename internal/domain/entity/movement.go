package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento en el kardex.
const (
	MovementTypeEntrada = "ENTRADA"
	MovementTypeSalida  = "SALIDA"
	MovementTypeAjuste  = "AJUSTE"
)

// Entry entrada de almacén (append-only).
type Entry struct {
	ID            int64
	ArticleID     int64
	Quantity      int64 // > 0
	UnitCost      decimal.Decimal
	InvoiceNumber string
	Supplier      string
	UserID        int64
	CreatedAt     time.Time
}

// Exit salida de almacén (append-only).
// Reason es texto libre: proyecto/justificación o, para salidas generadas
// por una solicitud, la referencia a esa solicitud.
type Exit struct {
	ID          int64
	ArticleID   int64
	Quantity    int64 // > 0
	Reason      string
	UserID      int64
	SolicitudID *int64
	CreatedAt   time.Time
}

// Adjustment ajuste de inventario con cantidad con signo.
// Es el único canal para corregir entradas o salidas erróneas.
type Adjustment struct {
	ID        int64
	ArticleID int64
	Quantity  int64 // != 0
	Reason    string
	UserID    int64
	CreatedAt time.Time
}

// Movement fila del kardex de un artículo. Quantity lleva signo según su
// efecto en el stock y Balance es el saldo acumulado tras el movimiento.
type Movement struct {
	Type      string
	ID        int64
	ArticleID int64
	Quantity  int64
	Reference string
	UserID    int64
	CreatedAt time.Time
	Balance   int64
}
