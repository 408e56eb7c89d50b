package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo roles y matriz rol_permisos.
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

// GetRole rol por ID; (nil, nil) si no existe.
func (r *PermissionRepo) GetRole(ctx context.Context, id int64) (*entity.Role, error) {
	return r.findRole(ctx, `SELECT role_id, nombre, descripcion FROM roles WHERE role_id = $1`, id)
}

// GetRoleByName rol por nombre exacto.
func (r *PermissionRepo) GetRoleByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.findRole(ctx, `SELECT role_id, nombre, descripcion FROM roles WHERE nombre = $1`, name)
}

func (r *PermissionRepo) findRole(ctx context.Context, query string, arg any) (*entity.Role, error) {
	var role entity.Role
	if err := r.q.QueryRow(ctx, query, arg).Scan(&role.ID, &role.Name, &role.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rol: %w", err)
	}
	return &role, nil
}

// ListRolePermissions filas de la matriz del rol.
func (r *PermissionRepo) ListRolePermissions(ctx context.Context, roleID int64) ([]entity.RolePermission, error) {
	query := `
		SELECT rp.role_id, rp.permiso_id, p.modulo, p.nombre,
		       rp.can_view, rp.can_create, rp.can_edit, rp.can_delete
		FROM rol_permisos rp
		JOIN permisos p ON p.permiso_id = rp.permiso_id
		WHERE rp.role_id = $1
		ORDER BY p.modulo, p.nombre`
	rows, err := r.q.Query(ctx, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("list rol_permisos: %w", err)
	}
	defer rows.Close()
	var out []entity.RolePermission
	for rows.Next() {
		var rp entity.RolePermission
		if err := rows.Scan(&rp.RoleID, &rp.PermisoID, &rp.Module, &rp.Name,
			&rp.CanView, &rp.CanCreate, &rp.CanEdit, &rp.CanDelete); err != nil {
			return nil, fmt.Errorf("scan rol_permiso: %w", err)
		}
		out = append(out, rp)
	}
	return out, rows.Err()
}

// UpsertRolePermission inserta o actualiza la fila (role_id, permiso_id).
func (r *PermissionRepo) UpsertRolePermission(ctx context.Context, rp entity.RolePermission) error {
	query := `
		INSERT INTO rol_permisos (role_id, permiso_id, can_view, can_create, can_edit, can_delete)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (role_id, permiso_id)
		DO UPDATE SET can_view = EXCLUDED.can_view, can_create = EXCLUDED.can_create,
		              can_edit = EXCLUDED.can_edit, can_delete = EXCLUDED.can_delete`
	_, err := r.q.Exec(ctx, query, rp.RoleID, rp.PermisoID, rp.CanView, rp.CanCreate, rp.CanEdit, rp.CanDelete)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("permiso %d inexistente: %w", rp.PermisoID, domain.ErrNotFound)
		}
		return fmt.Errorf("upsert rol_permiso: %w", err)
	}
	return nil
}
