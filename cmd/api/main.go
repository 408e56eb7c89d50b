package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	_ "github.com/jhoicas/almacen-api/docs"
	appanalytics "github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/permission"
	"github.com/jhoicas/almacen-api/internal/application/solicitud"
	appstock "github.com/jhoicas/almacen-api/internal/application/stock"
	domainperm "github.com/jhoicas/almacen-api/internal/domain/permission"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("exit_mode", cfg.Workflow.ExitMode).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	permRepo := postgres.NewPermissionRepository(pool)
	articleRepo := postgres.NewArticleRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	solicitudRepo := postgres.NewSolicitudRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	gate := permission.NewGate(userRepo, permRepo, txRunner)
	opts := solicitud.Options{
		ExitMode:     solicitud.ExitMode(cfg.Workflow.ExitMode),
		FolioRetries: cfg.Workflow.FolioRetries,
		Authorizers: domainperm.AllowList{
			Roles:  cfg.Workflow.AuthorizerRoles,
			Groups: cfg.Workflow.AuthorizerGroups,
		},
		StrictAuthorizers: cfg.Workflow.StrictAuthorizers,
	}
	querySol := solicitud.NewQueryUseCase(solicitudRepo, stockRepo)

	deps := httpRouter.RouterDeps{
		AuthUC: auth.NewAuthUseCase(userRepo, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		Gate:        gate,
		Ledger:      appstock.NewLedgerUseCase(stockRepo, articleRepo),
		Movements:   appstock.NewMovementUseCase(txRunner, articleRepo),
		CreateSol:   solicitud.NewCreateUseCase(txRunner, articleRepo, solicitudRepo, opts),
		QuerySol:    querySol,
		AuthorizeUC: solicitud.NewAuthorizeUseCase(txRunner, gate, opts),
		PDFUC:       solicitud.NewPDFUseCase(querySol, infrapdf.NewSolicitudPDFGenerator(cfg.App.Name)),
		DashboardUC: appanalytics.NewDashboardUseCase(dashboardRepo, time.Now),
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:       cfg.App.Name,
		Production: cfg.App.Production(),
	}, log.Named("http"))

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
