package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const selectUser = `
	SELECT u.usuario_id, u.nombre, u.email, u.password_hash, u.grupo_id, COALESCE(g.nombre, ''),
	       u.role_id, COALESCE(r.nombre, ''), u.activo, u.created_at, u.updated_at
	FROM usuarios u
	LEFT JOIN grupos g ON g.grupo_id = u.grupo_id
	LEFT JOIN roles r ON r.role_id = u.role_id`

// UserRepo lectura de usuarios con su grupo legacy y rol RBAC.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.findOne(ctx, selectUser+` WHERE u.usuario_id = $1`, id)
}

// GetByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, selectUser+` WHERE lower(u.email) = lower($1) LIMIT 1`, email)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.GroupID, &u.GroupName,
		&u.RoleID, &u.RoleName, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return &u, nil
}

// SetRole asigna el rol solo si role_id sigue en NULL.
func (r *UserRepo) SetRole(ctx context.Context, userID, roleID int64) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE usuarios SET role_id = $2, updated_at = now() WHERE usuario_id = $1 AND role_id IS NULL`,
		userID, roleID,
	)
	if err != nil {
		return false, fmt.Errorf("set role usuario: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
