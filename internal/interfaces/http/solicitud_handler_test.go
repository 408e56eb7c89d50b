package http_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/solicitud"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	apphttp "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

type fakeSolicitudes struct {
	lastCreate  solicitud.CreateInput
	replay      bool
	lastDecider int64
	lastActor   int64
	decideErr   error
	pending     []dto.SolicitudDTO
}

func (f *fakeSolicitudes) Create(_ context.Context, in solicitud.CreateInput) (*dto.CreateSolicitudResponse, error) {
	f.lastCreate = in
	if len(in.Request.Items) == 0 {
		return nil, domain.NewValidationError("items", "debe incluir al menos una partida")
	}
	return &dto.CreateSolicitudResponse{Success: true, SolicitudID: 12, Folio: "ENTRADA-2025-123456", Replayed: f.replay}, nil
}

func (f *fakeSolicitudes) GetByID(_ context.Context, id int64) (*dto.SolicitudDTO, error) {
	if id != 12 {
		return nil, domain.ErrNotFound
	}
	return &dto.SolicitudDTO{ID: 12, Folio: "ENTRADA-2025-123456", Estado: "PENDIENTE"}, nil
}

func (f *fakeSolicitudes) GetByFolio(ctx context.Context, folio string) (*dto.SolicitudDTO, error) {
	if folio != "ENTRADA-2025-123456" {
		return nil, domain.ErrNotFound
	}
	return f.GetByID(ctx, 12)
}

func (f *fakeSolicitudes) ListRecent(context.Context, int) ([]dto.SolicitudDTO, error) {
	return []dto.SolicitudDTO{}, nil
}

func (f *fakeSolicitudes) ListPending(context.Context) ([]dto.SolicitudDTO, error) {
	return f.pending, nil
}

func (f *fakeSolicitudes) GetDetail(ctx context.Context, id int64) (*dto.SolicitudDTO, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeSolicitudes) Authorize(_ context.Context, _ int64, deciderID int64, decision, _ string) (entity.Estado, error) {
	f.lastDecider = deciderID
	if f.decideErr != nil {
		return "", f.decideErr
	}
	return entity.Estado(decision), nil
}

func (f *fakeSolicitudes) UpdateStatus(_ context.Context, _ int64, _ string, actorID int64) error {
	f.lastActor = actorID
	return f.decideErr
}

func (f *fakeSolicitudes) Render(context.Context, int64) ([]byte, string, error) {
	return []byte("%PDF-1.3"), "ENTRADA-2025-123456.pdf", nil
}

func solicitudApp(f *fakeSolicitudes) *fiber.App {
	app := newTestApp(false)
	auth := apphttp.AuthMiddleware(testJWTSecret)
	h := apphttp.NewSolicitudHandler(f, f, f, f, logger.Nop())
	app.Post("/solicitudes", auth, h.Create)
	app.Get("/solicitudes/pendientes", auth, h.ListPending)
	app.Get("/solicitudes/folio/:folio", auth, h.GetByFolio)
	app.Get("/solicitudes/:id", auth, h.GetByID)
	app.Get("/solicitudes/:id/pdf", auth, h.PDF)
	app.Put("/solicitudes/:id/autorizar", auth, h.Authorize)
	app.Put("/solicitudes/:id/status", auth, h.UpdateStatus)
	return app
}

func validCreateBody() fiber.Map {
	return fiber.Map{
		"tipo":  "ENTRADA",
		"fecha": "2025-03-01",
		"items": []fiber.Map{{"article_id": 1, "cantidad": 10}, {"article_id": 2, "cantidad": 20}},
	}
}

func TestSolicitudCreate(t *testing.T) {
	f := &fakeSolicitudes{}
	app := solicitudApp(f)

	resp := do(t, app, http.MethodPost, "/solicitudes", bearer(t, 3), validCreateBody())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(12), body["solicitud_id"])
	assert.Equal(t, "ENTRADA-2025-123456", body["folio"])
	assert.Equal(t, int64(3), f.lastCreate.RequesterID)
	assert.Len(t, f.lastCreate.Request.Items, 2)
}

func TestSolicitudCreate_ReplayPorIdempotencyKey(t *testing.T) {
	f := &fakeSolicitudes{replay: true}
	app := solicitudApp(f)

	resp := do(t, app, http.MethodPost, "/solicitudes", bearer(t, 3), validCreateBody())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode(t, resp)["replayed"])
}

func TestSolicitudCreate_SinPartidas(t *testing.T) {
	app := solicitudApp(&fakeSolicitudes{})
	resp := do(t, app, http.MethodPost, "/solicitudes", bearer(t, 3), fiber.Map{"tipo": "ENTRADA", "fecha": "2025-03-01", "items": []fiber.Map{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "items", decode(t, resp)["field"])
}

func TestSolicitudRutasEstaticasAntesDeID(t *testing.T) {
	f := &fakeSolicitudes{pending: []dto.SolicitudDTO{{ID: 1}}}
	app := solicitudApp(f)

	resp := do(t, app, http.MethodGet, "/solicitudes/pendientes", bearer(t, 3), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode(t, resp)["solicitudes"], 1)

	resp = do(t, app, http.MethodGet, "/solicitudes/folio/ENTRADA-2025-123456", bearer(t, 3), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, _ := decode(t, resp)["data"].(map[string]any)
	assert.Equal(t, float64(12), data["id"])

	resp = do(t, app, http.MethodGet, "/solicitudes/99", bearer(t, 3), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSolicitudAuthorize_DeciderDelToken(t *testing.T) {
	f := &fakeSolicitudes{}
	app := solicitudApp(f)

	resp := do(t, app, http.MethodPut, "/solicitudes/12/autorizar", bearer(t, 8), fiber.Map{
		"estado": "AUTORIZADA", "observaciones_autorizacion": "ok", "usuario_autoriza_id": 99,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "AUTORIZADA", body["estado"])
	assert.Equal(t, int64(8), f.lastDecider)
}

func TestSolicitudAuthorize_Errores(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"estado inválido", domain.NewValidationError("estado", "debe ser AUTORIZADA o RECHAZADA"), http.StatusBadRequest},
		{"sin permiso", &domain.ForbiddenError{Module: "solicitudes", Action: "autorizar"}, http.StatusForbidden},
		{"no pendiente", domain.ErrNotFound, http.StatusNotFound},
		{"sin stock", &domain.InsufficientStockError{ArticleID: 1, Current: 0, Requested: 3}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := solicitudApp(&fakeSolicitudes{decideErr: tt.err})
			resp := do(t, app, http.MethodPut, "/solicitudes/12/autorizar", bearer(t, 8), fiber.Map{"estado": "AUTORIZADA"})
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestSolicitudUpdateStatus_TransicionInvalida(t *testing.T) {
	app := solicitudApp(&fakeSolicitudes{decideErr: domain.ErrConflict})
	resp := do(t, app, http.MethodPut, "/solicitudes/12/status", bearer(t, 8), fiber.Map{"estado": "PENDIENTE"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSolicitudUpdateStatus_UsuarioDelToken(t *testing.T) {
	f := &fakeSolicitudes{}
	resp := do(t, solicitudApp(f), http.MethodPut, "/solicitudes/12/status", bearer(t, 8),
		fiber.Map{"estado": "AUTORIZADA", "usuario_autoriza_id": 99})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(8), f.lastActor)
}

func TestSolicitudUpdateStatus_SinPermiso(t *testing.T) {
	app := solicitudApp(&fakeSolicitudes{decideErr: &domain.ForbiddenError{Module: "solicitudes", Action: "autorizar"}})
	resp := do(t, app, http.MethodPut, "/solicitudes/12/status", bearer(t, 8), fiber.Map{"estado": "RECHAZADA"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSolicitudPDF(t *testing.T) {
	resp := do(t, solicitudApp(&fakeSolicitudes{}), http.MethodGet, "/solicitudes/12/pdf", bearer(t, 8), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "ENTRADA-2025-123456.pdf")
}

func TestErrorHandler_InternoRedactadoEnProduccion(t *testing.T) {
	for _, production := range []bool{false, true} {
		app := newTestApp(production)
		app.Get("/boom", func(*fiber.Ctx) error { return errors.New("pq: connection refused") })

		resp := do(t, app, http.MethodGet, "/boom", "", nil)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		msg := decode(t, resp)["message"]
		if production {
			assert.Equal(t, "error interno del servidor", msg)
		} else {
			assert.Equal(t, "pq: connection refused", msg)
		}
	}
}
