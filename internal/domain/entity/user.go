package entity

import "time"

// User representa un usuario del almacén.
// RoleID nil indica un usuario aún no migrado a RBAC (usa su grupo legacy).
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string // bcrypt
	GroupID      *int64
	GroupName    string // JOIN con grupos
	RoleID       *int64
	RoleName     string // JOIN con roles
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role rol del sistema RBAC.
type Role struct {
	ID          int64
	Name        string
	Description string
}

// RolePermission fila de la matriz rol × permiso.
// Module agrupa permisos en la UI; Name identifica el permiso (ej. "solicitudes").
type RolePermission struct {
	RoleID    int64
	PermisoID int64
	Module    string
	Name      string
	CanView   bool
	CanCreate bool
	CanEdit   bool
	CanDelete bool
}
