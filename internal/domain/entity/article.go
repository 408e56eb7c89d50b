package entity

import "time"

// Estados de artículo.
const (
	ArticleStatusActive   = "active"
	ArticleStatusInactive = "inactive"
)

// Article representa un artículo del catálogo del almacén.
// El catálogo se administra fuera del núcleo; aquí solo se lee y se referencia.
type Article struct {
	ID          int64
	Code        string // código único legible (ej. "TOR-001")
	Name        string
	Size        string // medida/tamaño libre
	GroupCode   string
	MeasureCode string
	UnitCode    string
	StockMin    int64
	StockMax    int64
	Status      string // active, inactive
	SupplierID  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
