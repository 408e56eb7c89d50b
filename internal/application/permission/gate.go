package permission

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domainperm "github.com/jhoicas/almacen-api/internal/domain/permission"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Principal usuario autenticado con sus capacidades ya resueltas.
type Principal struct {
	User    *entity.User
	Context domainperm.AuthContext
	Caps    domainperm.CapabilitySet
}

// Can atajo sobre el conjunto de capacidades.
func (p *Principal) Can(m domainperm.Module, a domainperm.Action) bool {
	return p.Caps.Can(m, a)
}

// Gate resuelve permisos de usuarios legacy (por grupo) y RBAC (por rol).
type Gate struct {
	users    repository.UserRepository
	perms    repository.PermissionRepository
	txRunner TxRunner
}

// NewGate construye el gate.
func NewGate(users repository.UserRepository, perms repository.PermissionRepository, txRunner TxRunner) *Gate {
	return &Gate{users: users, perms: perms, txRunner: txRunner}
}

// Resolve carga el usuario y su conjunto de capacidades.
// Un usuario inexistente devuelve ErrNotFound; uno inactivo, ErrForbidden.
func (g *Gate) Resolve(ctx context.Context, userID int64) (*Principal, error) {
	u, err := g.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	if !u.Active {
		return nil, domain.ErrForbidden
	}
	ac := domainperm.ContextFor(u)
	caps, err := g.ResolveCapabilities(ctx, ac)
	if err != nil {
		return nil, err
	}
	return &Principal{User: u, Context: ac, Caps: caps}, nil
}

// ResolveCapabilities una función por variante del contexto.
func (g *Gate) ResolveCapabilities(ctx context.Context, ac domainperm.AuthContext) (domainperm.CapabilitySet, error) {
	switch c := ac.(type) {
	case domainperm.LegacyContext:
		return domainperm.LegacyCapabilities(c.Group), nil
	case domainperm.RBACContext:
		if domainperm.IsAdminContext(c) {
			return domainperm.NewCapabilitySet(true), nil
		}
		rows, err := g.perms.ListRolePermissions(ctx, c.RoleID)
		if err != nil {
			return domainperm.CapabilitySet{}, fmt.Errorf("permisos del rol %d: %w", c.RoleID, err)
		}
		return domainperm.FromRolePermissions(false, rows), nil
	}
	return domainperm.NewCapabilitySet(false), nil
}

// CanPerform informa si el usuario puede ejecutar la acción sobre el módulo.
func (g *Gate) CanPerform(ctx context.Context, userID int64, m domainperm.Module, a domainperm.Action) (bool, error) {
	p, err := g.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return p.Can(m, a), nil
}

// IsAdmin informa si el usuario tiene rol o grupo admin.
func (g *Gate) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	p, err := g.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return p.Caps.IsAdmin(), nil
}

// MigrateUserToRBAC asigna al usuario el rol que corresponde a su grupo legacy.
func (g *Gate) MigrateUserToRBAC(ctx context.Context, userID int64) (int64, error) {
	u, err := g.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, fmt.Errorf("usuario %d: %w", userID, domain.ErrNotFound)
	}
	if u.RoleID != nil {
		return 0, fmt.Errorf("usuario %d ya tiene rol asignado: %w", userID, domain.ErrConflict)
	}
	roleName := domainperm.RoleForGroup(u.GroupName)
	role, err := g.perms.GetRoleByName(ctx, roleName)
	if err != nil {
		return 0, err
	}
	if role == nil {
		return 0, fmt.Errorf("rol %q: %w", roleName, domain.ErrNotFound)
	}
	ok, err := g.users.SetRole(ctx, userID, role.ID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("usuario %d ya tiene rol asignado: %w", userID, domain.ErrConflict)
	}
	return role.ID, nil
}

// SetRolePermissions inserta o actualiza la matriz de un rol en una sola transacción.
func (g *Gate) SetRolePermissions(ctx context.Context, roleID int64, in dto.SetRolePermissionsRequest) error {
	if len(in.Permisos) == 0 {
		return domain.NewValidationError("permisos", "debe incluir al menos un permiso")
	}
	for i, p := range in.Permisos {
		if p.PermisoID <= 0 {
			return domain.NewValidationError(fmt.Sprintf("permisos[%d].permiso_id", i), "requerido")
		}
	}
	role, err := g.perms.GetRole(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return fmt.Errorf("rol %d: %w", roleID, domain.ErrNotFound)
	}
	return g.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		for _, p := range in.Permisos {
			err := repos.Permissions.UpsertRolePermission(ctx, entity.RolePermission{
				RoleID:    roleID,
				PermisoID: p.PermisoID,
				CanView:   p.CanView,
				CanCreate: p.CanCreate,
				CanEdit:   p.CanEdit,
				CanDelete: p.CanDelete,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ToMyPermissionsDTO salida de GET /api/permisos/me.
func ToMyPermissionsDTO(p *Principal) dto.MyPermissionsDTO {
	out := dto.MyPermissionsDTO{
		UserID:       p.User.ID,
		IsAdmin:      p.Caps.IsAdmin(),
		Group:        p.User.GroupName,
		Capabilities: []dto.CapabilityDTO{},
	}
	switch c := p.Context.(type) {
	case domainperm.RBACContext:
		out.Source = "rbac"
		out.Role = c.RoleName
	case domainperm.LegacyContext:
		out.Source = "legacy"
	}
	for _, c := range p.Caps.List() {
		out.Capabilities = append(out.Capabilities, dto.CapabilityDTO{Module: string(c.Module), Action: string(c.Action)})
	}
	return out
}
