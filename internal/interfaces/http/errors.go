package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// ErrorHandler traduce los errores que devuelven handlers y middlewares a JSON.
// Los 5xx se registran con el error original; en producción el mensaje al cliente es genérico.
func ErrorHandler(log *logger.Logger, production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("request_id", requestID(c)).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error interno")
			if production {
				body.Message = "error interno del servidor"
			}
		}
		return c.Status(status).JSON(body)
	}
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		valErr   *domain.ValidationError
		stockErr *domain.InsufficientStockError
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &valErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: valErr.Message, Field: valErr.Field}
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: forbiddenMessage(err)}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.As(err, &stockErr):
		return fiber.StatusConflict, insufficientBody(stockErr)
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, dto.ErrorResponse{Code: "HTTP_ERROR", Message: fiberErr.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
}

// forbiddenMessage solo nombra módulo y acción.
func forbiddenMessage(err error) string {
	var fe *domain.ForbiddenError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return domain.ErrForbidden.Error()
}

func insufficientBody(e *domain.InsufficientStockError) dto.ErrorResponse {
	return dto.ErrorResponse{
		Code:    "INSUFFICIENT_STOCK",
		Message: e.Error(),
		Details: dto.StockValidationDTO{
			ArticleID:       e.ArticleID,
			Quantity:        e.Requested,
			StockSuficiente: false,
			StockActual:     e.Current,
			StockRestante:   e.Current - e.Requested,
		},
	}
}

// writeExitError en el alta directa de salidas el stock insuficiente es un 400.
func writeExitError(c *fiber.Ctx, err error) error {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusBadRequest).JSON(insufficientBody(stockErr))
	}
	return err
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func requestID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRequestID).(string)
	return s
}
