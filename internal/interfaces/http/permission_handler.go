package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/permission"
)

type permissionAdmin interface {
	SetRolePermissions(ctx context.Context, roleID int64, in dto.SetRolePermissionsRequest) error
	MigrateUserToRBAC(ctx context.Context, userID int64) (int64, error)
}

// PermissionHandler permisos efectivos y administración de roles.
type PermissionHandler struct {
	gate permissionAdmin
}

// NewPermissionHandler construye el handler.
func NewPermissionHandler(gate permissionAdmin) *PermissionHandler {
	return &PermissionHandler{gate: gate}
}

// Me godoc
// @Summary      Permisos efectivos del usuario
// @Tags         permisos
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MyPermissionsDTO
// @Router       /api/permisos/me [get]
func (h *PermissionHandler) Me(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return unauthorized(c, "UNAUTHORIZED", "usuario no autenticado")
	}
	return c.JSON(permission.ToMyPermissionsDTO(p))
}

// SetRolePermissions godoc
// @Summary      Actualizar matriz de permisos de un rol
// @Tags         permisos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "role_id"
// @Param        body  body  dto.SetRolePermissionsRequest  true  "permisos[]"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/roles/{id}/permisos [put]
func (h *PermissionHandler) SetRolePermissions(c *fiber.Ctx) error {
	roleID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.SetRolePermissionsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.gate.SetRolePermissions(c.UserContext(), roleID, in); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// MigrateUser godoc
// @Summary      Migrar usuario legacy a RBAC
// @Tags         permisos
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "usuario_id"
// @Success      200  {object}  dto.MigrateRBACResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/usuarios/{id}/migrar-rbac [post]
func (h *PermissionHandler) MigrateUser(c *fiber.Ctx) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	roleID, err := h.gate.MigrateUserToRBAC(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.MigrateRBACResponse{Success: true, UserID: userID, RoleID: roleID})
}
