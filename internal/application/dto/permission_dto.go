package dto

// CapabilityDTO par módulo/acción.
type CapabilityDTO struct {
	Module string `json:"module"`
	Action string `json:"action"`
}

// MyPermissionsDTO respuesta de GET /api/permisos/me.
type MyPermissionsDTO struct {
	UserID       int64           `json:"usuario_id"`
	Source       string          `json:"origen"` // "rbac" | "legacy"
	Role         string          `json:"rol,omitempty"`
	Group        string          `json:"grupo,omitempty"`
	IsAdmin      bool            `json:"is_admin"`
	Capabilities []CapabilityDTO `json:"permisos"`
}

// RolePermissionRequest fila de PUT /api/roles/:id/permisos.
type RolePermissionRequest struct {
	PermisoID int64 `json:"permiso_id"`
	CanView   bool  `json:"can_view"`
	CanCreate bool  `json:"can_create"`
	CanEdit   bool  `json:"can_edit"`
	CanDelete bool  `json:"can_delete"`
}

// SetRolePermissionsRequest body de PUT /api/roles/:id/permisos.
type SetRolePermissionsRequest struct {
	Permisos []RolePermissionRequest `json:"permisos"`
}
