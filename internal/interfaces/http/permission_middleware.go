package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/permission"
	"github.com/jhoicas/almacen-api/internal/domain"
	domainperm "github.com/jhoicas/almacen-api/internal/domain/permission"
)

// principalResolver lo implementa *permission.Gate.
type principalResolver interface {
	Resolve(ctx context.Context, userID int64) (*permission.Principal, error)
}

// LoadPrincipal resuelve una vez por request el usuario y su CapabilitySet.
// Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 401 si el token no trae usuario o el usuario ya no existe.
//   - 403 si el usuario está inactivo.
func LoadPrincipal(resolver principalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID <= 0 {
			return unauthorized(c, "UNAUTHORIZED", "usuario no encontrado en el token")
		}
		p, err := resolver.Resolve(c.UserContext(), userID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return unauthorized(c, "UNAUTHORIZED", "usuario no encontrado")
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "cuenta inactiva"})
		case err != nil:
			return err
		}
		c.Locals(LocalPrincipal, p)
		return c.Next()
	}
}

// GetPrincipal principal cargado por LoadPrincipal; nil si no hay.
func GetPrincipal(c *fiber.Ctx) *permission.Principal {
	p, _ := c.Locals(LocalPrincipal).(*permission.Principal)
	return p
}

// RequirePermission exige la capacidad (módulo, acción). Debe usarse DESPUÉS de LoadPrincipal.
func RequirePermission(m domainperm.Module, a domainperm.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return unauthorized(c, "UNAUTHORIZED", "usuario no autenticado")
		}
		if !p.Can(m, a) {
			return &domain.ForbiddenError{Module: string(m), Action: string(a)}
		}
		return c.Next()
	}
}

// RequireAdmin solo rol o grupo admin.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return unauthorized(c, "UNAUTHORIZED", "usuario no autenticado")
		}
		if !p.Caps.IsAdmin() {
			return &domain.ForbiddenError{Module: "administracion", Action: "admin"}
		}
		return c.Next()
	}
}
