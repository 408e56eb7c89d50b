package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// UserRepository lectura de usuarios con su grupo y rol.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// SetRole asigna role_id solo si aún es NULL; devuelve false si ya tenía rol.
	SetRole(ctx context.Context, userID, roleID int64) (bool, error)
}
