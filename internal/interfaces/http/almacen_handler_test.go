package http_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	appstock "github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	domainstock "github.com/jhoicas/almacen-api/internal/domain/stock"
	apphttp "github.com/jhoicas/almacen-api/internal/interfaces/http"
)

// fakeStock stock fijo por artículo.
type fakeStock struct {
	stock map[int64]int64
}

func (f *fakeStock) ListStock(context.Context, string, bool, dto.PageRequest) ([]dto.StockItemDTO, error) {
	return []dto.StockItemDTO{}, nil
}

func (f *fakeStock) ValidateSufficiency(_ context.Context, articleID, qty int64) (domainstock.Sufficiency, error) {
	if qty <= 0 {
		return domainstock.Sufficiency{}, domain.NewValidationError("quantity", "debe ser mayor a 0")
	}
	return domainstock.Check(articleID, f.stock[articleID], qty), nil
}

func (f *fakeStock) ValidateMany(_ context.Context, items []appstock.ItemRequest) (*appstock.BatchResult, error) {
	res := &appstock.BatchResult{AllSufficient: true}
	for _, it := range items {
		s := domainstock.Check(it.ArticleID, f.stock[it.ArticleID], it.Quantity)
		res.PerItem = append(res.PerItem, s)
		if !s.Sufficient {
			res.AllSufficient = false
			res.Insufficient = append(res.Insufficient, s)
		}
	}
	return res, nil
}

func (f *fakeStock) Kardex(context.Context, int64, int) ([]dto.KardexRowDTO, error) {
	return nil, domain.ErrNotFound
}

// fakeMovements registra la última salida; exitErr simula la revalidación bajo lock.
type fakeMovements struct {
	exitErr    error
	lastExit   dto.RegisterExitRequest
	lastUserID int64
}

func (f *fakeMovements) RegisterEntry(context.Context, int64, dto.RegisterEntryRequest) (*dto.MovementCreatedDTO, error) {
	return &dto.MovementCreatedDTO{Success: true, ID: 1}, nil
}

func (f *fakeMovements) RegisterExit(_ context.Context, userID int64, in dto.RegisterExitRequest) (*dto.MovementCreatedDTO, error) {
	f.lastExit, f.lastUserID = in, userID
	if f.exitErr != nil {
		return nil, f.exitErr
	}
	return &dto.MovementCreatedDTO{Success: true, ID: 9}, nil
}

func (f *fakeMovements) RegisterAdjustment(context.Context, int64, dto.RegisterAdjustmentRequest) (*dto.MovementCreatedDTO, error) {
	return nil, &domain.InsufficientStockError{ArticleID: 1, Current: 2, Requested: 5}
}

func almacenApp(stock *fakeStock, mov *fakeMovements) *fiber.App {
	app := newTestApp(false)
	auth := apphttp.AuthMiddleware(testJWTSecret)
	h := apphttp.NewAlmacenHandler(stock, mov)
	app.Post("/almacen/validar-stock", auth, h.ValidateStock)
	app.Post("/almacen/validar-stock-multiple", auth, h.ValidateStockMany)
	app.Post("/almacen/salidas", auth, apphttp.RequireStock(stock), h.CreateExit)
	app.Post("/almacen/ajustes", auth, h.CreateAdjustment)
	app.Get("/almacen/articulos/:id/kardex", auth, h.Kardex)
	return app
}

func TestValidateStock(t *testing.T) {
	app := almacenApp(&fakeStock{stock: map[int64]int64{1: 10}}, &fakeMovements{})

	resp := do(t, app, http.MethodPost, "/almacen/validar-stock", bearer(t, 1), fiber.Map{"article_id": 1, "quantity": 15})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, false, body["stockSuficiente"])
	assert.Equal(t, float64(10), body["stockActual"])
	assert.Equal(t, float64(-5), body["stockRestante"])

	resp = do(t, app, http.MethodPost, "/almacen/validar-stock", bearer(t, 1), fiber.Map{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "article_id", decode(t, resp)["field"])
}

func TestValidateStockMany(t *testing.T) {
	app := almacenApp(&fakeStock{stock: map[int64]int64{1: 10, 2: 0}}, &fakeMovements{})

	resp := do(t, app, http.MethodPost, "/almacen/validar-stock-multiple", bearer(t, 1), fiber.Map{
		"items": []fiber.Map{{"article_id": 1, "quantity": 10}, {"article_id": 2, "quantity": 1}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, false, body["todoStockSuficiente"])
	assert.Len(t, body["validaciones"], 2)
	assert.Len(t, body["itemsSinStock"], 1)

	resp = do(t, app, http.MethodPost, "/almacen/validar-stock-multiple", bearer(t, 1), fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, http.MethodPost, "/almacen/validar-stock-multiple", bearer(t, 1), fiber.Map{"items": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateExit_MiddlewareBloqueaSinStock(t *testing.T) {
	mov := &fakeMovements{}
	app := almacenApp(&fakeStock{stock: map[int64]int64{1: 3}}, mov)

	resp := do(t, app, http.MethodPost, "/almacen/salidas", bearer(t, 5), fiber.Map{"article_id": 1, "quantity": 4, "reason": "obra"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Zero(t, mov.lastExit.ArticleID, "el handler no debe ejecutarse")
}

func TestCreateExit_UsaUsuarioDelToken(t *testing.T) {
	mov := &fakeMovements{}
	app := almacenApp(&fakeStock{stock: map[int64]int64{1: 10}}, mov)

	resp := do(t, app, http.MethodPost, "/almacen/salidas", bearer(t, 5), fiber.Map{"article_id": 1, "quantity": 4, "reason": "obra"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int64(5), mov.lastUserID)
	assert.Equal(t, int64(4), mov.lastExit.Quantity)
}

func TestCreateExit_CarreraEnTransaccionEs400(t *testing.T) {
	mov := &fakeMovements{exitErr: &domain.InsufficientStockError{ArticleID: 1, Current: 2, Requested: 4}}
	app := almacenApp(&fakeStock{stock: map[int64]int64{1: 10}}, mov)

	resp := do(t, app, http.MethodPost, "/almacen/salidas", bearer(t, 5), fiber.Map{"article_id": 1, "quantity": 4, "reason": "obra"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	details, _ := decode(t, resp)["details"].(map[string]any)
	assert.Equal(t, float64(2), details["stockActual"])
}

func TestCreateAdjustment_SinStockEs409(t *testing.T) {
	app := almacenApp(&fakeStock{}, &fakeMovements{})
	resp := do(t, app, http.MethodPost, "/almacen/ajustes", bearer(t, 5), fiber.Map{"article_id": 1, "quantity": -5, "reason": "merma"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode(t, resp)["code"])
}

func TestKardex_IDInvalidoYNoEncontrado(t *testing.T) {
	app := almacenApp(&fakeStock{}, &fakeMovements{})
	assert.Equal(t, http.StatusBadRequest, do(t, app, http.MethodGet, "/almacen/articulos/abc/kardex", bearer(t, 1), nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, "/almacen/articulos/7/kardex", bearer(t, 1), nil).StatusCode)
}
