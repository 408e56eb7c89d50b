package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSolicitudItemRequest partida en el alta de una solicitud.
type CreateSolicitudItemRequest struct {
	ArticleID      int64            `json:"article_id"`
	Cantidad       int64            `json:"cantidad"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario,omitempty"`
	Observaciones  string           `json:"observaciones,omitempty"`
}

// CreateSolicitudRequest body de POST /api/solicitudes.
// usuario_solicita_id vacío toma el usuario del token.
type CreateSolicitudRequest struct {
	Tipo              string                       `json:"tipo"`
	Fecha             string                       `json:"fecha"` // YYYY-MM-DD o RFC3339
	UsuarioSolicitaID int64                        `json:"usuario_solicita_id"`
	Observaciones     string                       `json:"observaciones"`
	Items             []CreateSolicitudItemRequest `json:"items"`
}

// CreateSolicitudResponse respuesta del alta.
type CreateSolicitudResponse struct {
	Success     bool   `json:"success"`
	SolicitudID int64  `json:"solicitud_id"`
	Folio       string `json:"folio"`
	Replayed    bool   `json:"replayed,omitempty"` // true si se devolvió una solicitud previa por Idempotency-Key
}

// SolicitudItemDTO partida en lecturas.
type SolicitudItemDTO struct {
	ID             int64            `json:"id"`
	ArticleID      int64            `json:"article_id"`
	ArticleCode    string           `json:"codigo"`
	ArticleName    string           `json:"nombre"`
	Cantidad       int64            `json:"cantidad"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario"`
	Observaciones  string           `json:"observaciones"`
	StockActual    *int64           `json:"stock_actual,omitempty"`
}

// SolicitudDTO cabecera con partidas.
type SolicitudDTO struct {
	ID                int64              `json:"id"`
	Folio             string             `json:"folio"`
	Tipo              string             `json:"tipo"`
	Fecha             string             `json:"fecha"`
	UsuarioSolicitaID int64              `json:"usuario_solicita_id"`
	SolicitanteNombre string             `json:"solicitante_nombre"`
	UsuarioAutorizaID *int64             `json:"usuario_autoriza_id"`
	AutorizadorNombre string             `json:"autorizador_nombre,omitempty"`
	Estado            string             `json:"estado"`
	Observaciones     string             `json:"observaciones"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	Items             []SolicitudItemDTO `json:"items"`
}

// AuthorizeSolicitudRequest body de PUT /api/solicitudes/:id/autorizar.
type AuthorizeSolicitudRequest struct {
	Estado                    string `json:"estado"`
	ObservacionesAutorizacion string `json:"observaciones_autorizacion"`
}

// AuthorizeSolicitudResponse respuesta de la decisión.
type AuthorizeSolicitudResponse struct {
	Success bool   `json:"success"`
	Estado  string `json:"estado"`
}

// UpdateStatusRequest body de PUT /api/solicitudes/:id/status.
type UpdateStatusRequest struct {
	Estado string `json:"estado"`
}
