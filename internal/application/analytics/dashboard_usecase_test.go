package analytics

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

type dashboardRepoMock struct {
	mu      sync.Mutex
	ranges  map[entity.Estado][2]time.Time
	since   time.Time
	avg     float64
	avgErr  error
	pending []repository.PendingRow
	limit   int
}

func (m *dashboardRepoMock) CountByEstado(_ context.Context, e entity.Estado) (int, error) {
	if e == entity.EstadoPendiente {
		return 4, nil
	}
	return 0, nil
}

func (m *dashboardRepoMock) CountDecided(_ context.Context, e entity.Estado, from, to time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ranges[e] = [2]time.Time{from, to}
	if e == entity.EstadoAutorizada {
		return 2, nil
	}
	return 1, nil
}

func (m *dashboardRepoMock) CountCreated(context.Context, time.Time, time.Time) (int, error) {
	return 12, nil
}

func (m *dashboardRepoMock) AvgResponseHours(_ context.Context, since time.Time) (float64, error) {
	m.mu.Lock()
	m.since = since
	m.mu.Unlock()
	return m.avg, m.avgErr
}

func (m *dashboardRepoMock) RecentPending(_ context.Context, limit int) ([]repository.PendingRow, error) {
	m.limit = limit
	return m.pending, nil
}

var now = time.Date(2025, 10, 9, 15, 30, 0, 0, time.UTC)

func newDashboard(repo *dashboardRepoMock) *DashboardUseCase {
	repo.ranges = map[entity.Estado][2]time.Time{}
	return NewDashboardUseCase(repo, func() time.Time { return now })
}

func TestGetStats(t *testing.T) {
	repo := &dashboardRepoMock{avg: 5.4567}
	uc := newDashboard(repo)

	out, err := uc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, out.Pendientes)
	assert.Equal(t, 2, out.AutorizadasHoy)
	assert.Equal(t, 1, out.RechazadasHoy)
	assert.Equal(t, 12, out.TotalMes)
	assert.Equal(t, 5.46, out.AvgResponseHours)

	day := repo.ranges[entity.EstadoAutorizada]
	assert.Equal(t, time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC), day[0])
	assert.Equal(t, time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC), day[1])
	assert.Equal(t, now.AddDate(0, 0, -30), repo.since)
}

func TestGetStats_SinDecididasDevuelveCero(t *testing.T) {
	uc := newDashboard(&dashboardRepoMock{avg: math.NaN()})
	out, err := uc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.AvgResponseHours)
}

func TestGetStats_Error(t *testing.T) {
	uc := newDashboard(&dashboardRepoMock{avgErr: errors.New("timeout")})
	_, err := uc.GetStats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tiempo de respuesta")
}

func TestGetRecentPending(t *testing.T) {
	repo := &dashboardRepoMock{pending: []repository.PendingRow{
		{ID: 1, Folio: "SALIDA-2025-000001", Tipo: entity.TipoSalida, CreatedAt: now.Add(-50 * time.Hour), ItemCount: 3},
		{ID: 2, Folio: "ENTRADA-2025-000002", Tipo: entity.TipoEntrada, CreatedAt: now.Add(-90 * time.Minute), ItemCount: 1},
	}}
	uc := newDashboard(repo)

	out, err := uc.GetRecentPending(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, defaultRecentPending, repo.limit)
	require.Len(t, out, 2)
	assert.Equal(t, 50.0, out[0].HorasEspera)
	assert.Equal(t, 1.5, out[1].HorasEspera)
	assert.Equal(t, 3, out[0].TotalItems)
	assert.Equal(t, "SALIDA", out[0].Tipo)
}
