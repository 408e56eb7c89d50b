package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
)

type dashboardReader interface {
	GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error)
	GetRecentPending(ctx context.Context, limit int) ([]dto.PendingSolicitudDTO, error)
}

// DashboardHandler indicadores de solicitudes.
type DashboardHandler struct {
	uc dashboardReader
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc dashboardReader) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetStats godoc
// @Summary      Indicadores de solicitudes
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/solicitudes/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "stats": stats})
}

// GetRecentPending pendientes más antiguas primero.
// GET /api/solicitudes/dashboard/recientes?limit=10
func (h *DashboardHandler) GetRecentPending(c *fiber.Ctx) error {
	list, err := h.uc.GetRecentPending(c.UserContext(), c.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "solicitudes": list})
}
