package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	appstock "github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	domainstock "github.com/jhoicas/almacen-api/internal/domain/stock"
)

type stockReader interface {
	ListStock(ctx context.Context, search string, onlyLow bool, page dto.PageRequest) ([]dto.StockItemDTO, error)
	ValidateSufficiency(ctx context.Context, articleID, qty int64) (domainstock.Sufficiency, error)
	ValidateMany(ctx context.Context, items []appstock.ItemRequest) (*appstock.BatchResult, error)
	Kardex(ctx context.Context, articleID int64, limit int) ([]dto.KardexRowDTO, error)
}

type movementWriter interface {
	RegisterEntry(ctx context.Context, userID int64, in dto.RegisterEntryRequest) (*dto.MovementCreatedDTO, error)
	RegisterExit(ctx context.Context, userID int64, in dto.RegisterExitRequest) (*dto.MovementCreatedDTO, error)
	RegisterAdjustment(ctx context.Context, userID int64, in dto.RegisterAdjustmentRequest) (*dto.MovementCreatedDTO, error)
}

// AlmacenHandler stock, validaciones y movimientos (protegido).
type AlmacenHandler struct {
	stock     stockReader
	movements movementWriter
}

// NewAlmacenHandler construye el handler.
func NewAlmacenHandler(stock stockReader, movements movementWriter) *AlmacenHandler {
	return &AlmacenHandler{stock: stock, movements: movements}
}

// ListStock godoc
// @Summary      Stock actual por artículo
// @Tags         almacen
// @Security     Bearer
// @Produce      json
// @Param        q           query  string  false  "búsqueda por código o nombre"
// @Param        bajo_minimo query  bool    false  "solo artículos bajo su mínimo"
// @Param        limit       query  int     false  "default 50, máximo 500"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {array}  dto.StockItemDTO
// @Router       /api/almacen/stock [get]
func (h *AlmacenHandler) ListStock(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	list, err := h.stock.ListStock(c.UserContext(), strings.TrimSpace(c.Query("q")), c.QueryBool("bajo_minimo"), page)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// ValidateStock godoc
// @Summary      Validar stock de un artículo
// @Tags         almacen
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateStockRequest  true  "article_id, quantity"
// @Success      200   {object}  dto.StockValidationDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/almacen/validar-stock [post]
func (h *AlmacenHandler) ValidateStock(c *fiber.Ctx) error {
	var in dto.ValidateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ArticleID <= 0 {
		return domain.NewValidationError("article_id", "requerido")
	}
	s, err := h.stock.ValidateSufficiency(c.UserContext(), in.ArticleID, in.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(appstock.ToValidationDTO(s))
}

// ValidateStockMany godoc
// @Summary      Validar stock de varias partidas
// @Description  Cada partida se evalúa contra el stock completo; no se reserva entre partidas.
// @Tags         almacen
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateStockManyRequest  true  "items[]"
// @Success      200   {object}  dto.StockValidationManyDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/almacen/validar-stock-multiple [post]
func (h *AlmacenHandler) ValidateStockMany(c *fiber.Ctx) error {
	var in dto.ValidateStockManyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Items == nil {
		return domain.NewValidationError("items", "debe ser un arreglo")
	}
	items := make([]appstock.ItemRequest, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, appstock.ItemRequest{ArticleID: it.ArticleID, Quantity: it.Quantity})
	}
	res, err := h.stock.ValidateMany(c.UserContext(), items)
	if err != nil {
		return err
	}
	out := dto.StockValidationManyDTO{
		TodoStockSuficiente: res.AllSufficient,
		Validaciones:        make([]dto.StockValidationDTO, 0, len(res.PerItem)),
		ItemsSinStock:       make([]dto.StockValidationDTO, 0, len(res.Insufficient)),
	}
	for _, s := range res.PerItem {
		out.Validaciones = append(out.Validaciones, appstock.ToValidationDTO(s))
	}
	for _, s := range res.Insufficient {
		out.ItemsSinStock = append(out.ItemsSinStock, appstock.ToValidationDTO(s))
	}
	return c.JSON(out)
}

// CreateEntry godoc
// @Summary      Registrar entrada
// @Tags         almacen
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterEntryRequest  true  "article_id, quantity, unit_cost"
// @Success      201   {object}  dto.MovementCreatedDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/almacen/entradas [post]
func (h *AlmacenHandler) CreateEntry(c *fiber.Ctx) error {
	var in dto.RegisterEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.movements.RegisterEntry(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateExit godoc
// @Summary      Registrar salida
// @Description  Pasa antes por la validación de stock; el alta revalida bajo lock.
// @Tags         almacen
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterExitRequest  true  "article_id, quantity, reason"
// @Success      201   {object}  dto.MovementCreatedDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/almacen/salidas [post]
func (h *AlmacenHandler) CreateExit(c *fiber.Ctx) error {
	var in dto.RegisterExitRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	userID := in.UserID
	if userID <= 0 {
		userID = GetUserID(c)
	}
	out, err := h.movements.RegisterExit(c.UserContext(), userID, in)
	if err != nil {
		return writeExitError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateAdjustment godoc
// @Summary      Registrar ajuste
// @Description  Cantidad con signo; un ajuste negativo no puede dejar el stock bajo cero.
// @Tags         almacen
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterAdjustmentRequest  true  "article_id, quantity, reason"
// @Success      201   {object}  dto.MovementCreatedDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/almacen/ajustes [post]
func (h *AlmacenHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in dto.RegisterAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.movements.RegisterAdjustment(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Kardex godoc
// @Summary      Kardex de un artículo
// @Tags         almacen
// @Security     Bearer
// @Produce      json
// @Param        id     path   int  true   "article_id"
// @Param        limit  query  int  false  "default 200"
// @Success      200  {array}  dto.KardexRowDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/almacen/articulos/{id}/kardex [get]
func (h *AlmacenHandler) Kardex(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	rows, err := h.stock.Kardex(c.UserContext(), id, c.QueryInt("limit"))
	if err != nil {
		return err
	}
	return c.JSON(rows)
}
