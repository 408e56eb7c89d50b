package dto

import "time"

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Group     string    `json:"grupo,omitempty"`
	RoleID    *int64    `json:"role_id"`
	Role      string    `json:"rol,omitempty"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MigrateRBACResponse salida de POST /api/usuarios/:id/migrar-rbac.
type MigrateRBACResponse struct {
	Success bool  `json:"success"`
	UserID  int64 `json:"usuario_id"`
	RoleID  int64 `json:"role_id"`
}
