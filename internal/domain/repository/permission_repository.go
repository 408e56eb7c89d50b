package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PermissionRepository roles y matriz rol × permiso.
type PermissionRepository interface {
	GetRole(ctx context.Context, id int64) (*entity.Role, error)
	GetRoleByName(ctx context.Context, name string) (*entity.Role, error)
	ListRolePermissions(ctx context.Context, roleID int64) ([]entity.RolePermission, error)
	// UpsertRolePermission inserta o actualiza una fila (role_id, permiso_id).
	UpsertRolePermission(ctx context.Context, rp entity.RolePermission) error
}
