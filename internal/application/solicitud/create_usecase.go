package solicitud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	domainsol "github.com/jhoicas/almacen-api/internal/domain/solicitud"
)

// CreateInput alta de solicitud con el usuario del token y la clave de idempotencia opcional.
type CreateInput struct {
	Request        dto.CreateSolicitudRequest
	RequesterID    int64
	IdempotencyKey string
}

// CreateUseCase alta de solicitudes de material.
type CreateUseCase struct {
	txRunner      TxRunner
	articleRepo   repository.ArticleRepository
	solicitudRepo repository.SolicitudRepository
	opts          Options
}

// NewCreateUseCase construye el caso de uso.
func NewCreateUseCase(txRunner TxRunner, articleRepo repository.ArticleRepository, solicitudRepo repository.SolicitudRepository, opts Options) *CreateUseCase {
	return &CreateUseCase{
		txRunner:      txRunner,
		articleRepo:   articleRepo,
		solicitudRepo: solicitudRepo,
		opts:          opts.withDefaults(),
	}
}

// Create valida, asigna folio y persiste cabecera y partidas en una transacción.
// Una SALIDA en modo on_create escribe además sus salidas de almacén en la misma tx.
func (uc *CreateUseCase) Create(ctx context.Context, in CreateInput) (*dto.CreateSolicitudResponse, error) {
	s, err := uc.build(in)
	if err != nil {
		return nil, err
	}
	if err := uc.checkArticles(ctx, s.Items); err != nil {
		return nil, err
	}

	if s.IdempotencyKey != "" {
		prev, err := uc.solicitudRepo.GetByIdempotencyKey(ctx, s.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if prev != nil {
			return replayed(prev), nil
		}
	}

	base := uc.opts.Now()
	for attempt := 0; attempt < uc.opts.FolioRetries; attempt++ {
		s.Folio = domainsol.GenerateFolio(s.Tipo, base.Add(time.Duration(attempt)*time.Millisecond))
		err = uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
			return uc.persist(ctx, repos, s)
		})
		switch {
		case err == nil:
			return &dto.CreateSolicitudResponse{Success: true, SolicitudID: s.ID, Folio: s.Folio}, nil
		case errors.Is(err, repository.ErrFolioTaken):
			continue
		case errors.Is(err, repository.ErrIdempotencyKeyTaken):
			prev, gerr := uc.solicitudRepo.GetByIdempotencyKey(ctx, s.IdempotencyKey)
			if gerr != nil {
				return nil, gerr
			}
			if prev == nil {
				return nil, err
			}
			return replayed(prev), nil
		default:
			return nil, err
		}
	}
	return nil, fmt.Errorf("no se pudo asignar un folio único tras %d intentos: %w", uc.opts.FolioRetries, domain.ErrConflict)
}

func (uc *CreateUseCase) persist(ctx context.Context, repos repository.TxRepos, s *entity.Solicitud) error {
	s.ID = 0
	for i := range s.Items {
		s.Items[i].ID, s.Items[i].SolicitudID = 0, 0
	}
	if err := repos.Solicitudes.Create(ctx, s); err != nil {
		return err
	}
	if s.Tipo != entity.TipoSalida || uc.opts.ExitMode != ExitOnCreate {
		return nil
	}
	return stock.RegisterExitsInTx(ctx, repos, exitsFor(s, s.UsuarioSolicitaID))
}

func (uc *CreateUseCase) build(in CreateInput) (*entity.Solicitud, error) {
	req := in.Request
	if strings.TrimSpace(req.Tipo) == "" {
		return nil, domain.NewValidationError("tipo", "requerido")
	}
	tipo, ok := domainsol.ParseTipo(req.Tipo)
	if !ok {
		return nil, domain.NewValidationError("tipo", "debe ser ENTRADA o SALIDA")
	}
	if strings.TrimSpace(req.Fecha) == "" {
		return nil, domain.NewValidationError("fecha", "requerida")
	}
	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		return nil, domain.NewValidationError("fecha", "formato inválido (YYYY-MM-DD)")
	}
	requester := req.UsuarioSolicitaID
	if requester <= 0 {
		requester = in.RequesterID
	}
	if requester <= 0 {
		return nil, domain.NewValidationError("usuario_solicita_id", "requerido")
	}
	if len(req.Items) == 0 {
		return nil, domain.NewValidationError("items", "debe incluir al menos una partida")
	}
	items := make([]entity.SolicitudItem, 0, len(req.Items))
	for i, it := range req.Items {
		if it.ArticleID <= 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].article_id", i), "requerido")
		}
		if it.Cantidad <= 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].cantidad", i), "debe ser mayor a 0")
		}
		if it.PrecioUnitario != nil && it.PrecioUnitario.IsNegative() {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].precio_unitario", i), "no puede ser negativo")
		}
		items = append(items, entity.SolicitudItem{
			ArticleID:      it.ArticleID,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Observaciones:  strings.TrimSpace(it.Observaciones),
		})
	}
	return &entity.Solicitud{
		Tipo:              tipo,
		Fecha:             fecha,
		UsuarioSolicitaID: requester,
		Estado:            entity.EstadoPendiente,
		Observaciones:     strings.TrimSpace(req.Observaciones),
		IdempotencyKey:    strings.TrimSpace(in.IdempotencyKey),
		Items:             items,
	}, nil
}

func (uc *CreateUseCase) checkArticles(ctx context.Context, items []entity.SolicitudItem) error {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ArticleID)
	}
	existing, err := uc.articleRepo.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i, it := range items {
		if !existing[it.ArticleID] {
			return domain.NewValidationError(fmt.Sprintf("items[%d].article_id", i), fmt.Sprintf("artículo %d no existe", it.ArticleID))
		}
	}
	return nil
}

func parseFecha(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// exitsFor arma las salidas de almacén de una solicitud SALIDA.
func exitsFor(s *entity.Solicitud, userID int64) []*entity.Exit {
	reason := domainsol.ExitReason(s.ID, s.Folio)
	id := s.ID
	out := make([]*entity.Exit, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, &entity.Exit{
			ArticleID:   it.ArticleID,
			Quantity:    it.Cantidad,
			Reason:      reason,
			UserID:      userID,
			SolicitudID: &id,
		})
	}
	return out
}

func replayed(s *entity.Solicitud) *dto.CreateSolicitudResponse {
	return &dto.CreateSolicitudResponse{Success: true, SolicitudID: s.ID, Folio: s.Folio, Replayed: true}
}
