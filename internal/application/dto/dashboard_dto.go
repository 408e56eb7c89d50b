package dto

import "time"

// DashboardStatsDTO respuesta de GET /api/solicitudes/dashboard/stats.
type DashboardStatsDTO struct {
	Pendientes       int     `json:"pendientes"`
	AutorizadasHoy   int     `json:"autorizadasHoy"`
	RechazadasHoy    int     `json:"rechazadasHoy"`
	TotalMes         int     `json:"totalMes"`
	AvgResponseHours float64 `json:"avgResponseHours"` // 0 si no hay decididas en 30 días
}

// PendingSolicitudDTO fila de GET /api/solicitudes/dashboard/recientes.
type PendingSolicitudDTO struct {
	ID                int64     `json:"id"`
	Folio             string    `json:"folio"`
	Tipo              string    `json:"tipo"`
	SolicitanteNombre string    `json:"solicitante_nombre"`
	CreatedAt         time.Time `json:"created_at"`
	HorasEspera       float64   `json:"horas_espera"`
	TotalItems        int       `json:"total_items"`
}
