package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SolicitudTipo tipo de solicitud de material.
type SolicitudTipo string

// Tipos de solicitud.
const (
	TipoEntrada SolicitudTipo = "ENTRADA"
	TipoSalida  SolicitudTipo = "SALIDA"
)

// Estado estado del ciclo de vida de una solicitud.
type Estado string

// Estados de solicitud.
const (
	EstadoPendiente  Estado = "PENDIENTE"
	EstadoAutorizada Estado = "AUTORIZADA"
	EstadoRechazada  Estado = "RECHAZADA"
	EstadoCompletada Estado = "COMPLETADA"
)

// Solicitud cabecera de una solicitud de material con sus partidas.
// SolicitanteNombre y AutorizadorNombre se llenan en lecturas (JOIN con usuarios).
type Solicitud struct {
	ID                int64
	Folio             string // {TIPO}-{AÑO}-{6 dígitos}
	Tipo              SolicitudTipo
	Fecha             time.Time // fecha de negocio
	UsuarioSolicitaID int64
	UsuarioAutorizaID *int64 // nil hasta la decisión
	Estado            Estado
	Observaciones     string
	IdempotencyKey    string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	SolicitanteNombre string
	AutorizadorNombre string
	Items             []SolicitudItem
}

// SolicitudItem partida de una solicitud. Se crea junto con su cabecera.
type SolicitudItem struct {
	ID             int64
	SolicitudID    int64
	ArticleID      int64
	Cantidad       int64 // > 0
	PrecioUnitario *decimal.Decimal
	Observaciones  string

	ArticleCode string
	ArticleName string
	StockActual *int64 // solo en el detalle
}
