package solicitud

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domainperm "github.com/jhoicas/almacen-api/internal/domain/permission"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	domainsol "github.com/jhoicas/almacen-api/internal/domain/solicitud"
)

// AuthorizeUseCase decisiones y cambios de estado de solicitudes.
type AuthorizeUseCase struct {
	txRunner TxRunner
	resolver PrincipalResolver
	opts     Options
}

// NewAuthorizeUseCase construye el caso de uso.
func NewAuthorizeUseCase(txRunner TxRunner, resolver PrincipalResolver, opts Options) *AuthorizeUseCase {
	return &AuthorizeUseCase{txRunner: txRunner, resolver: resolver, opts: opts.withDefaults()}
}

// Authorize aplica AUTORIZADA o RECHAZADA a una solicitud PENDIENTE.
// Una solicitud inexistente o ya decidida devuelve ErrNotFound.
func (uc *AuthorizeUseCase) Authorize(ctx context.Context, id, deciderID int64, decision, comment string) (entity.Estado, error) {
	estado, ok := domainsol.ParseEstado(decision)
	if !ok || !domainsol.IsDecision(estado) {
		return "", domain.NewValidationError("estado", "debe ser AUTORIZADA o RECHAZADA")
	}
	if err := uc.checkDecider(ctx, deciderID); err != nil {
		return "", err
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		s, err := repos.Solicitudes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil || s.Estado != entity.EstadoPendiente {
			return fmt.Errorf("solicitud %d no encontrada o ya decidida: %w", id, domain.ErrNotFound)
		}
		err = repos.Solicitudes.UpdateDecision(ctx, id, repository.Decision{
			Estado:            estado,
			UsuarioAutorizaID: deciderID,
			Observaciones:     domainsol.AppendAuthorization(s.Observaciones, comment),
			UpdatedAt:         uc.opts.Now(),
		})
		if err != nil {
			return err
		}
		return uc.exitsOnAuthorize(ctx, repos, s, estado, deciderID)
	})
	if err != nil {
		return "", err
	}
	return estado, nil
}

// UpdateStatus transición genérica validada contra la máquina de estados.
// actorID es el usuario autenticado; una decisión sobre una PENDIENTE pasa
// por el mismo control de autorizadores que Authorize y queda a su nombre.
func (uc *AuthorizeUseCase) UpdateStatus(ctx context.Context, id int64, estadoRaw string, actorID int64) error {
	estado, ok := domainsol.ParseEstado(estadoRaw)
	if !ok {
		return domain.NewValidationError("estado", "estado inválido")
	}
	decision := domainsol.IsDecision(estado)
	if decision {
		if err := uc.checkDecider(ctx, actorID); err != nil {
			return err
		}
	}
	return uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		s, err := repos.Solicitudes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("solicitud %d: %w", id, domain.ErrNotFound)
		}
		if !domainsol.CanTransition(s.Estado, estado) {
			return fmt.Errorf("transición %s → %s no permitida: %w", s.Estado, estado, domain.ErrConflict)
		}
		authorizerID := actorID
		if !decision && s.UsuarioAutorizaID != nil {
			authorizerID = *s.UsuarioAutorizaID
		}
		err = repos.Solicitudes.UpdateDecision(ctx, id, repository.Decision{
			Estado:            estado,
			UsuarioAutorizaID: authorizerID,
			Observaciones:     s.Observaciones,
			UpdatedAt:         uc.opts.Now(),
		})
		if err != nil {
			return err
		}
		return uc.exitsOnAuthorize(ctx, repos, s, estado, authorizerID)
	})
}

// checkDecider admin, rol/grupo en la lista de autorizadores o, fuera del
// modo estricto, permiso explícito solicitudes.edit.
func (uc *AuthorizeUseCase) checkDecider(ctx context.Context, deciderID int64) error {
	p, err := uc.resolver.Resolve(ctx, deciderID)
	if err != nil {
		return err
	}
	if p.Caps.IsAdmin() || uc.opts.Authorizers.Allows(p.Context) {
		return nil
	}
	if !uc.opts.StrictAuthorizers && p.Can(domainperm.ModuleSolicitudes, domainperm.ActionEdit) {
		return nil
	}
	return &domain.ForbiddenError{Module: string(domainperm.ModuleSolicitudes), Action: "autorizar"}
}

// exitsOnAuthorize en modo on_authorize, una SALIDA que pasa a AUTORIZADA
// descuenta stock en la misma transacción. No duplica salidas ya escritas.
func (uc *AuthorizeUseCase) exitsOnAuthorize(ctx context.Context, repos repository.TxRepos, s *entity.Solicitud, to entity.Estado, userID int64) error {
	if uc.opts.ExitMode != ExitOnAuthorize || s.Tipo != entity.TipoSalida || to != entity.EstadoAutorizada {
		return nil
	}
	prev, err := repos.Movements.ListExitsBySolicitud(ctx, s.ID)
	if err != nil {
		return err
	}
	if len(prev) > 0 {
		return nil
	}
	items, err := repos.Solicitudes.ListItems(ctx, s.ID)
	if err != nil {
		return err
	}
	s.Items = items
	return stock.RegisterExitsInTx(ctx, repos, exitsFor(s, userID))
}
