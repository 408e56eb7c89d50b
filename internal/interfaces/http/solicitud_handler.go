package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/solicitud"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// HeaderIdempotencyKey clave opcional para reintentos seguros del alta.
const HeaderIdempotencyKey = "Idempotency-Key"

type solicitudCreator interface {
	Create(ctx context.Context, in solicitud.CreateInput) (*dto.CreateSolicitudResponse, error)
}

type solicitudReader interface {
	GetByID(ctx context.Context, id int64) (*dto.SolicitudDTO, error)
	GetByFolio(ctx context.Context, folio string) (*dto.SolicitudDTO, error)
	ListRecent(ctx context.Context, limit int) ([]dto.SolicitudDTO, error)
	ListPending(ctx context.Context) ([]dto.SolicitudDTO, error)
	GetDetail(ctx context.Context, id int64) (*dto.SolicitudDTO, error)
}

type solicitudDecider interface {
	Authorize(ctx context.Context, id, deciderID int64, decision, comment string) (entity.Estado, error)
	UpdateStatus(ctx context.Context, id int64, estado string, actorID int64) error
}

type solicitudRenderer interface {
	Render(ctx context.Context, id int64) ([]byte, string, error)
}

// SolicitudHandler endpoints de solicitudes de material (protegido).
type SolicitudHandler struct {
	create solicitudCreator
	query  solicitudReader
	decide solicitudDecider
	pdf    solicitudRenderer
	log    *logger.Logger
}

// NewSolicitudHandler construye el handler.
func NewSolicitudHandler(create solicitudCreator, query solicitudReader, decide solicitudDecider, pdf solicitudRenderer, log *logger.Logger) *SolicitudHandler {
	return &SolicitudHandler{create: create, query: query, decide: decide, pdf: pdf, log: log}
}

// Create godoc
// @Summary      Crear solicitud
// @Description  Cabecera y partidas en una transacción. Una SALIDA descuenta stock según WORKFLOW_EXIT_MODE.
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "reintento seguro"
// @Param        body  body  dto.CreateSolicitudRequest  true  "tipo, fecha, items"
// @Success      201   {object}  dto.CreateSolicitudResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/solicitudes [post]
func (h *SolicitudHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSolicitudRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.create.Create(c.UserContext(), solicitud.CreateInput{
		Request:        in,
		RequesterID:    GetUserID(c),
		IdempotencyKey: strings.TrimSpace(c.Get(HeaderIdempotencyKey)),
	})
	if err != nil {
		return err
	}
	status := fiber.StatusCreated
	if out.Replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(out)
}

// List godoc
// @Summary      Solicitudes recientes
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máximo 100"
// @Success      200  {array}  dto.SolicitudDTO
// @Router       /api/solicitudes [get]
func (h *SolicitudHandler) List(c *fiber.Ctx) error {
	list, err := h.query.ListRecent(c.UserContext(), c.QueryInt("limit", 100))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener solicitud
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "solicitud_id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id} [get]
func (h *SolicitudHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	s, err := h.query.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": s})
}

// GetByFolio godoc
// @Summary      Obtener solicitud por folio
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Param        folio  path  string  true  "ENTRADA-2025-000123"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/solicitudes/folio/{folio} [get]
func (h *SolicitudHandler) GetByFolio(c *fiber.Ctx) error {
	s, err := h.query.GetByFolio(c.UserContext(), c.Params("folio"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": s})
}

// ListPending godoc
// @Summary      Solicitudes pendientes
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/solicitudes/pendientes [get]
func (h *SolicitudHandler) ListPending(c *fiber.Ctx) error {
	list, err := h.query.ListPending(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "solicitudes": list})
}

// GetDetail godoc
// @Summary      Detalle con stock actual por partida
// @Tags         solicitudes
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "solicitud_id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id}/detalle [get]
func (h *SolicitudHandler) GetDetail(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	s, err := h.query.GetDetail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "solicitud": s})
}

// Authorize godoc
// @Summary      Autorizar o rechazar
// @Description  El autorizador es el usuario del token. Solo solicitudes PENDIENTE.
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "solicitud_id"
// @Param        body  body  dto.AuthorizeSolicitudRequest  true  "estado AUTORIZADA | RECHAZADA"
// @Success      200   {object}  dto.AuthorizeSolicitudResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id}/autorizar [put]
func (h *SolicitudHandler) Authorize(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.AuthorizeSolicitudRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	decider := GetUserID(c)
	estado, err := h.decide.Authorize(c.UserContext(), id, decider, in.Estado, in.ObservacionesAutorizacion)
	if err != nil {
		return err
	}
	h.log.Info().
		Int64("solicitud_id", id).
		Str("estado", string(estado)).
		Int64("decider_id", decider).
		Msg("solicitud decidida")
	return c.JSON(dto.AuthorizeSolicitudResponse{Success: true, Estado: string(estado)})
}

// UpdateStatus godoc
// @Summary      Cambiar estado
// @Description  Transición genérica validada contra la máquina de estados (ej. AUTORIZADA → COMPLETADA).
// @Description  AUTORIZADA/RECHAZADA exigen ser autorizador; el usuario se toma del token.
// @Tags         solicitudes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "solicitud_id"
// @Param        body  body  dto.UpdateStatusRequest  true  "estado"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id}/status [put]
func (h *SolicitudHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.decide.UpdateStatus(c.UserContext(), id, in.Estado, GetUserID(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// PDF godoc
// @Summary      Comprobante PDF
// @Tags         solicitudes
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "solicitud_id"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/solicitudes/{id}/pdf [get]
func (h *SolicitudHandler) PDF(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	b, filename, err := h.pdf.Render(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(b)
}
