package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/permission"
	"github.com/jhoicas/almacen-api/internal/application/solicitud"
	appstock "github.com/jhoicas/almacen-api/internal/application/stock"
	domainperm "github.com/jhoicas/almacen-api/internal/domain/permission"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Gate        *permission.Gate
	Ledger      *appstock.LedgerUseCase
	Movements   *appstock.MovementUseCase
	CreateSol   *solicitud.CreateUseCase
	QuerySol    *solicitud.QueryUseCase
	AuthorizeUC *solicitud.AuthorizeUseCase
	PDFUC       *solicitud.PDFUseCase
	DashboardUC *analytics.DashboardUseCase
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	protect := []fiber.Handler{AuthMiddleware(deps.JWTSecret), LoadPrincipal(deps.Gate)}
	can := RequirePermission

	// Solicitudes. Las rutas estáticas van antes de /:id.
	solHandler := NewSolicitudHandler(deps.CreateSol, deps.QuerySol, deps.AuthorizeUC, deps.PDFUC, deps.Log.Named("solicitudes"))
	dashHandler := NewDashboardHandler(deps.DashboardUC)
	view := can(domainperm.ModuleSolicitudes, domainperm.ActionView)
	sol := api.Group("/solicitudes", protect...)
	sol.Post("/", can(domainperm.ModuleSolicitudes, domainperm.ActionCreate), solHandler.Create)
	sol.Get("/", view, solHandler.List)
	sol.Get("/pendientes", view, solHandler.ListPending)
	sol.Get("/folio/:folio", view, solHandler.GetByFolio)
	sol.Get("/dashboard/stats", view, dashHandler.GetStats)
	sol.Get("/dashboard/recientes", view, dashHandler.GetRecentPending)
	sol.Get("/:id", view, solHandler.GetByID)
	sol.Get("/:id/detalle", view, solHandler.GetDetail)
	sol.Get("/:id/pdf", view, solHandler.PDF)
	sol.Put("/:id/autorizar", solHandler.Authorize) // el gate de autorizadores vive en el caso de uso
	sol.Put("/:id/status", can(domainperm.ModuleSolicitudes, domainperm.ActionEdit), solHandler.UpdateStatus)

	// Almacén
	almHandler := NewAlmacenHandler(deps.Ledger, deps.Movements)
	stockView := can(domainperm.ModuleStock, domainperm.ActionView)
	alm := api.Group("/almacen", protect...)
	alm.Get("/stock", stockView, almHandler.ListStock)
	alm.Post("/validar-stock", stockView, almHandler.ValidateStock)
	alm.Post("/validar-stock-multiple", stockView, almHandler.ValidateStockMany)
	alm.Get("/articulos/:id/kardex", stockView, almHandler.Kardex)
	alm.Post("/entradas", can(domainperm.ModuleEntradas, domainperm.ActionCreate), almHandler.CreateEntry)
	alm.Post("/salidas", can(domainperm.ModuleSalidas, domainperm.ActionCreate), RequireStock(deps.Ledger), almHandler.CreateExit)
	alm.Post("/ajustes", can(domainperm.ModuleAjustes, domainperm.ActionCreate), almHandler.CreateAdjustment)

	// Permisos
	permHandler := NewPermissionHandler(deps.Gate)
	api.Get("/permisos/me", append(protect, permHandler.Me)...)
	api.Put("/roles/:id/permisos", append(protect, RequireAdmin(), permHandler.SetRolePermissions)...)
	api.Post("/usuarios/:id/migrar-rbac", append(protect, RequireAdmin(), permHandler.MigrateUser)...)
}
