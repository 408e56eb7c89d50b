package solicitud

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

const maxRecent = 100

// QueryUseCase lecturas de solicitudes.
type QueryUseCase struct {
	solicitudRepo repository.SolicitudRepository
	stockRepo     repository.StockRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(solicitudRepo repository.SolicitudRepository, stockRepo repository.StockRepository) *QueryUseCase {
	return &QueryUseCase{solicitudRepo: solicitudRepo, stockRepo: stockRepo}
}

// GetByID cabecera y partidas.
func (uc *QueryUseCase) GetByID(ctx context.Context, id int64) (*dto.SolicitudDTO, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToDTO(s)
	return &out, nil
}

// GetByFolio busca por folio exacto.
func (uc *QueryUseCase) GetByFolio(ctx context.Context, folio string) (*dto.SolicitudDTO, error) {
	folio = strings.TrimSpace(folio)
	if folio == "" {
		return nil, domain.NewValidationError("folio", "requerido")
	}
	s, err := uc.solicitudRepo.GetByFolio(ctx, folio)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("solicitud %s: %w", folio, domain.ErrNotFound)
	}
	out := ToDTO(s)
	return &out, nil
}

// ListRecent últimas solicitudes (máximo 100), más recientes primero.
func (uc *QueryUseCase) ListRecent(ctx context.Context, limit int) ([]dto.SolicitudDTO, error) {
	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}
	return uc.list(ctx, repository.SolicitudFilter{Limit: limit})
}

// ListPending todas las solicitudes en PENDIENTE, sin tope.
func (uc *QueryUseCase) ListPending(ctx context.Context) ([]dto.SolicitudDTO, error) {
	return uc.list(ctx, repository.SolicitudFilter{Estado: entity.EstadoPendiente})
}

// GetDetail cabecera y partidas con el stock actual de cada artículo.
func (uc *QueryUseCase) GetDetail(ctx context.Context, id int64) (*dto.SolicitudDTO, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(s.Items))
	for _, it := range s.Items {
		ids = append(ids, it.ArticleID)
	}
	if len(ids) > 0 {
		stocks, err := uc.stockRepo.BulkStock(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range s.Items {
			v := stocks[s.Items[i].ArticleID]
			s.Items[i].StockActual = &v
		}
	}
	out := ToDTO(s)
	return &out, nil
}

// Entity lectura cruda para otros casos de uso (PDF).
func (uc *QueryUseCase) Entity(ctx context.Context, id int64) (*entity.Solicitud, error) {
	return uc.get(ctx, id)
}

func (uc *QueryUseCase) get(ctx context.Context, id int64) (*entity.Solicitud, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("id", "inválido")
	}
	s, err := uc.solicitudRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("solicitud %d: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

func (uc *QueryUseCase) list(ctx context.Context, f repository.SolicitudFilter) ([]dto.SolicitudDTO, error) {
	rows, err := uc.solicitudRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SolicitudDTO, 0, len(rows))
	for _, s := range rows {
		out = append(out, ToDTO(s))
	}
	return out, nil
}

// ToDTO convierte la entidad al formato de la API.
func ToDTO(s *entity.Solicitud) dto.SolicitudDTO {
	out := dto.SolicitudDTO{
		ID:                s.ID,
		Folio:             s.Folio,
		Tipo:              string(s.Tipo),
		Fecha:             s.Fecha.Format("2006-01-02"),
		UsuarioSolicitaID: s.UsuarioSolicitaID,
		SolicitanteNombre: s.SolicitanteNombre,
		UsuarioAutorizaID: s.UsuarioAutorizaID,
		AutorizadorNombre: s.AutorizadorNombre,
		Estado:            string(s.Estado),
		Observaciones:     s.Observaciones,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		Items:             make([]dto.SolicitudItemDTO, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SolicitudItemDTO{
			ID:             it.ID,
			ArticleID:      it.ArticleID,
			ArticleCode:    it.ArticleCode,
			ArticleName:    it.ArticleName,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Observaciones:  it.Observaciones,
			StockActual:    it.StockActual,
		})
	}
	return out
}
