package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Errores de unicidad al crear una solicitud.
var (
	ErrFolioTaken          = errors.New("folio ya registrado")
	ErrIdempotencyKeyTaken = errors.New("idempotency key ya registrada")
)

// SolicitudFilter filtros del listado de solicitudes.
type SolicitudFilter struct {
	Estado            entity.Estado
	Tipo              entity.SolicitudTipo
	UsuarioSolicitaID int64
	Limit             int
}

// Decision cambio de estado sobre una cabecera.
type Decision struct {
	Estado            entity.Estado
	UsuarioAutorizaID int64
	Observaciones     string
	UpdatedAt         time.Time
}

// SolicitudRepository persistencia del agregado solicitud + partidas.
// Las lecturas devuelven (nil, nil) si no existe.
type SolicitudRepository interface {
	// Create inserta cabecera y partidas; asigna IDs y timestamps.
	Create(ctx context.Context, s *entity.Solicitud) error
	GetByID(ctx context.Context, id int64) (*entity.Solicitud, error)
	GetByFolio(ctx context.Context, folio string) (*entity.Solicitud, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Solicitud, error)
	List(ctx context.Context, f SolicitudFilter) ([]*entity.Solicitud, error)
	// GetForUpdate bloquea la cabecera (SELECT ... FOR UPDATE); sin partidas.
	GetForUpdate(ctx context.Context, id int64) (*entity.Solicitud, error)
	ListItems(ctx context.Context, solicitudID int64) ([]entity.SolicitudItem, error)
	UpdateDecision(ctx context.Context, id int64, d Decision) error
}
