// Package analytics contiene los agregados del tablero de solicitudes.
package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

const (
	defaultRecentPending = 10
	maxRecentPending     = 100
	responseWindowDays   = 30
)

// DashboardUseCase resumen del flujo de solicitudes.
//
// Fuente de datos: DashboardRepository (consultas read-only).
type DashboardUseCase struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso. now nil usa time.Now.
func NewDashboardUseCase(repo repository.DashboardRepository, now func() time.Time) *DashboardUseCase {
	if now == nil {
		now = time.Now
	}
	return &DashboardUseCase{repo: repo, now: now}
}

// GetStats cinco consultas en paralelo:
//  1. pendientes al momento
//  2. autorizadas hoy
//  3. rechazadas hoy
//  4. creadas en el mes en curso
//  5. horas promedio de respuesta de los últimos 30 días
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	since := now.AddDate(0, 0, -responseWindowDays)

	var out dto.DashboardStatsDTO
	var avg float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.repo.CountByEstado(gctx, entity.EstadoPendiente)
		if err != nil {
			return fmt.Errorf("dashboard: pendientes: %w", err)
		}
		out.Pendientes = n
		return nil
	})
	g.Go(func() error {
		n, err := uc.repo.CountDecided(gctx, entity.EstadoAutorizada, todayStart, tomorrow)
		if err != nil {
			return fmt.Errorf("dashboard: autorizadas hoy: %w", err)
		}
		out.AutorizadasHoy = n
		return nil
	})
	g.Go(func() error {
		n, err := uc.repo.CountDecided(gctx, entity.EstadoRechazada, todayStart, tomorrow)
		if err != nil {
			return fmt.Errorf("dashboard: rechazadas hoy: %w", err)
		}
		out.RechazadasHoy = n
		return nil
	})
	g.Go(func() error {
		n, err := uc.repo.CountCreated(gctx, monthStart, tomorrow)
		if err != nil {
			return fmt.Errorf("dashboard: total del mes: %w", err)
		}
		out.TotalMes = n
		return nil
	})
	g.Go(func() error {
		v, err := uc.repo.AvgResponseHours(gctx, since)
		if err != nil {
			return fmt.Errorf("dashboard: tiempo de respuesta: %w", err)
		}
		avg = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out.AvgResponseHours = round2(avg)
	return &out, nil
}

// GetRecentPending pendientes más antiguas primero, con horas de espera.
func (uc *DashboardUseCase) GetRecentPending(ctx context.Context, limit int) ([]dto.PendingSolicitudDTO, error) {
	if limit <= 0 {
		limit = defaultRecentPending
	}
	if limit > maxRecentPending {
		limit = maxRecentPending
	}
	rows, err := uc.repo.RecentPending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: pendientes recientes: %w", err)
	}
	now := uc.now()
	out := make([]dto.PendingSolicitudDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.PendingSolicitudDTO{
			ID:                r.ID,
			Folio:             r.Folio,
			Tipo:              string(r.Tipo),
			SolicitanteNombre: r.SolicitanteNombre,
			CreatedAt:         r.CreatedAt,
			HorasEspera:       round2(now.Sub(r.CreatedAt).Hours()),
			TotalItems:        r.ItemCount,
		})
	}
	return out, nil
}

// round2 redondea a 2 decimales; NaN e infinitos valen 0.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
