package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	appstock "github.com/jhoicas/almacen-api/internal/application/stock"
	domainstock "github.com/jhoicas/almacen-api/internal/domain/stock"
)

type sufficiencyChecker interface {
	ValidateSufficiency(ctx context.Context, articleID, qty int64) (domainstock.Sufficiency, error)
}

// RequireStock rechaza con 400 una salida cuyo artículo no tiene stock suficiente.
// Es una verificación previa; el alta vuelve a validar bajo lock dentro de la transacción.
// Cuerpos incompletos pasan al handler, que responde la validación por campo.
func RequireStock(checker sufficiencyChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.RegisterExitRequest
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
		if in.ArticleID <= 0 || in.Quantity <= 0 {
			return c.Next()
		}
		s, err := checker.ValidateSufficiency(c.UserContext(), in.ArticleID, in.Quantity)
		if err != nil {
			return err
		}
		if !s.Sufficient {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "INSUFFICIENT_STOCK",
				Message: "stock insuficiente",
				Details: appstock.ToValidationDTO(s),
			})
		}
		return c.Next()
	}
}
