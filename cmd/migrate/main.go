// migrate aplica las migraciones embebidas con goose.
//
// Uso: go run ./cmd/migrate [up|down|status]   (default: up)
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pressly/goose/v3"

	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Named("migrate")

	if err := run(context.Background(), cfg.DB, os.Args[1:], log); err != nil {
		log.Error().Err(err).Msg("migración fallida")
		os.Exit(1)
	}
}

// parseCommand subcomando de goose; sin argumentos es "up".
func parseCommand(args []string) (string, error) {
	if len(args) == 0 {
		return "up", nil
	}
	switch args[0] {
	case "up", "down", "status":
		return args[0], nil
	}
	return "", fmt.Errorf("comando desconocido %q (up|down|status)", args[0])
}

// run abre el migrador y ejecuta el subcomando. La conexión se cierra
// siempre antes de volver a main.
func run(ctx context.Context, dbCfg config.DBConfig, args []string, log *logger.Logger) error {
	cmd, err := parseCommand(args)
	if err != nil {
		return err
	}
	provider, db, err := postgres.OpenMigrator(dbCfg)
	if err != nil {
		return fmt.Errorf("abrir migrador: %w", err)
	}
	defer db.Close()

	switch cmd {
	case "down":
		return down(ctx, provider, log)
	case "status":
		return status(ctx, provider, log)
	default:
		return up(ctx, provider, log)
	}
}

func up(ctx context.Context, provider *goose.Provider, log *logger.Logger) error {
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		log.Info().Str("source", r.Source.Path).Dur("duration", r.Duration).Msg("migración aplicada")
	}
	if len(results) == 0 {
		log.Info().Msg("sin migraciones pendientes")
	}
	return nil
}

func down(ctx context.Context, provider *goose.Provider, log *logger.Logger) error {
	r, err := provider.Down(ctx)
	if err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	if r != nil {
		log.Info().Str("source", r.Source.Path).Msg("migración revertida")
	}
	return nil
}

func status(ctx context.Context, provider *goose.Provider, log *logger.Logger) error {
	statuses, err := provider.Status(ctx)
	if err != nil {
		return fmt.Errorf("goose status: %w", err)
	}
	for _, s := range statuses {
		log.Info().
			Int64("version", s.Source.Version).
			Str("source", s.Source.Path).
			Str("state", string(s.State)).
			Msg("migración")
	}
	return nil
}
