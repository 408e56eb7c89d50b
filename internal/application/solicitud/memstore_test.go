package solicitud

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/permission"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domainperm "github.com/jhoicas/almacen-api/internal/domain/permission"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// memStore implementa los puertos de solicitudes, movimientos, stock y artículos
// en memoria. Las escrituras hechas dentro de una tx fallida se descartan.
type memStore struct {
	articles    map[int64]*entity.Article
	users       map[int64]string
	solicitudes map[int64]*entity.Solicitud
	exits       []*entity.Exit
	initial     map[int64]int64
	nextID      int64

	takenFolios map[string]bool
	createCalls int
	locked      [][]int64
}

func newMemStore() *memStore {
	return &memStore{
		articles: map[int64]*entity.Article{
			1: {ID: 1, Code: "TOR-001", Name: "Tornillo"},
			2: {ID: 2, Code: "CLA-002", Name: "Clavo"},
			3: {ID: 3, Code: "CEM-003", Name: "Cemento"},
		},
		users:       map[int64]string{7: "Ana", 8: "Luis"},
		solicitudes: map[int64]*entity.Solicitud{},
		initial:     map[int64]int64{},
		takenFolios: map[string]bool{},
	}
}

func (m *memStore) snapshot() (map[int64]*entity.Solicitud, []*entity.Exit, int64) {
	sols := make(map[int64]*entity.Solicitud, len(m.solicitudes))
	for k, v := range m.solicitudes {
		c := *v
		c.Items = append([]entity.SolicitudItem(nil), v.Items...)
		sols[k] = &c
	}
	return sols, append([]*entity.Exit(nil), m.exits...), m.nextID
}

// Run simula commit/rollback restaurando el estado si fn falla.
func (m *memStore) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	sols, exits, next := m.snapshot()
	err := fn(ctx, repository.TxRepos{Movements: m, Stock: m, Solicitudes: m})
	if err != nil {
		m.solicitudes, m.exits, m.nextID = sols, exits, next
	}
	return err
}

func (m *memStore) GetByID(_ context.Context, id int64) (*entity.Solicitud, error) {
	s, ok := m.solicitudes[id]
	if !ok {
		return nil, nil
	}
	return m.hydrate(s), nil
}

type articleRepo struct{ m *memStore }

func (a articleRepo) GetByID(_ context.Context, id int64) (*entity.Article, error) {
	return a.m.articles[id], nil
}

func (a articleRepo) ExistingIDs(_ context.Context, ids []int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	for _, id := range ids {
		if _, ok := a.m.articles[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

// SolicitudRepository

func (m *memStore) Create(_ context.Context, s *entity.Solicitud) error {
	m.createCalls++
	if m.takenFolios[s.Folio] {
		return repository.ErrFolioTaken
	}
	for _, prev := range m.solicitudes {
		if prev.Folio == s.Folio {
			return repository.ErrFolioTaken
		}
		if s.IdempotencyKey != "" && prev.IdempotencyKey == s.IdempotencyKey {
			return repository.ErrIdempotencyKeyTaken
		}
	}
	m.nextID++
	s.ID = m.nextID
	s.CreatedAt = time.Date(2025, 10, 9, 8, 0, 0, 0, time.UTC)
	s.UpdatedAt = s.CreatedAt
	for i := range s.Items {
		m.nextID++
		s.Items[i].ID = m.nextID
		s.Items[i].SolicitudID = s.ID
	}
	c := *s
	c.Items = append([]entity.SolicitudItem(nil), s.Items...)
	m.solicitudes[s.ID] = &c
	return nil
}

func (m *memStore) hydrate(s *entity.Solicitud) *entity.Solicitud {
	c := *s
	c.SolicitanteNombre = m.users[s.UsuarioSolicitaID]
	if s.UsuarioAutorizaID != nil {
		c.AutorizadorNombre = m.users[*s.UsuarioAutorizaID]
	}
	c.Items = make([]entity.SolicitudItem, 0, len(s.Items))
	for _, it := range s.Items {
		if a := m.articles[it.ArticleID]; a != nil {
			it.ArticleCode, it.ArticleName = a.Code, a.Name
		}
		c.Items = append(c.Items, it)
	}
	return &c
}

func (m *memStore) GetByFolio(_ context.Context, folio string) (*entity.Solicitud, error) {
	for _, s := range m.solicitudes {
		if s.Folio == folio {
			return m.hydrate(s), nil
		}
	}
	return nil, nil
}

func (m *memStore) GetByIdempotencyKey(_ context.Context, key string) (*entity.Solicitud, error) {
	for _, s := range m.solicitudes {
		if s.IdempotencyKey == key {
			return m.hydrate(s), nil
		}
	}
	return nil, nil
}

func (m *memStore) List(_ context.Context, f repository.SolicitudFilter) ([]*entity.Solicitud, error) {
	var out []*entity.Solicitud
	for _, s := range m.solicitudes {
		if f.Estado != "" && s.Estado != f.Estado {
			continue
		}
		out = append(out, m.hydrate(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) GetForUpdate(_ context.Context, id int64) (*entity.Solicitud, error) {
	s, ok := m.solicitudes[id]
	if !ok {
		return nil, nil
	}
	c := *s
	c.Items = nil
	return &c, nil
}

func (m *memStore) ListItems(_ context.Context, id int64) ([]entity.SolicitudItem, error) {
	s, ok := m.solicitudes[id]
	if !ok {
		return nil, nil
	}
	return append([]entity.SolicitudItem(nil), s.Items...), nil
}

func (m *memStore) UpdateDecision(_ context.Context, id int64, d repository.Decision) error {
	s, ok := m.solicitudes[id]
	if !ok {
		return errors.New("no existe")
	}
	s.Estado = d.Estado
	if d.UsuarioAutorizaID > 0 {
		v := d.UsuarioAutorizaID
		s.UsuarioAutorizaID = &v
	}
	s.Observaciones = d.Observaciones
	s.UpdatedAt = d.UpdatedAt
	return nil
}

// MovementRepository

func (m *memStore) CreateEntry(context.Context, *entity.Entry) error           { return nil }
func (m *memStore) CreateAdjustment(context.Context, *entity.Adjustment) error { return nil }

func (m *memStore) CreateExit(_ context.Context, e *entity.Exit) error {
	m.nextID++
	e.ID = m.nextID
	m.exits = append(m.exits, e)
	return nil
}

func (m *memStore) ListExitsBySolicitud(_ context.Context, id int64) ([]*entity.Exit, error) {
	var out []*entity.Exit
	for _, e := range m.exits {
		if e.SolicitudID != nil && *e.SolicitudID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

// StockRepository

func (m *memStore) stockOf(id int64) int64 {
	total := m.initial[id]
	for _, e := range m.exits {
		if e.ArticleID == id {
			total -= e.Quantity
		}
	}
	return total
}

func (m *memStore) CurrentStock(_ context.Context, id int64) (int64, error) {
	return m.stockOf(id), nil
}

func (m *memStore) BulkStock(_ context.Context, ids []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(ids))
	for _, id := range ids {
		out[id] = m.stockOf(id)
	}
	return out, nil
}

func (m *memStore) ListStock(context.Context, repository.StockFilter) ([]repository.StockRow, error) {
	return nil, nil
}

func (m *memStore) LockArticles(_ context.Context, ids []int64) error {
	m.locked = append(m.locked, append([]int64(nil), ids...))
	return nil
}

func (m *memStore) Kardex(context.Context, int64, int) ([]entity.Movement, error) {
	return nil, nil
}

// principals resolver fijo por id de usuario.
type principals map[int64]*permission.Principal

func (p principals) Resolve(_ context.Context, userID int64) (*permission.Principal, error) {
	pr, ok := p[userID]
	if !ok {
		return nil, errors.New("usuario desconocido")
	}
	return pr, nil
}

func legacyPrincipal(id int64, group string) *permission.Principal {
	return &permission.Principal{
		User:    &entity.User{ID: id, GroupName: group, Active: true},
		Context: domainperm.LegacyContext{Group: group},
		Caps:    domainperm.LegacyCapabilities(group),
	}
}

func rbacPrincipal(id int64, role string, grants ...domainperm.Capability) *permission.Principal {
	caps := domainperm.NewCapabilitySet(role == domainperm.RoleAdmin)
	for _, g := range grants {
		caps.Grant(g.Module, g.Action)
	}
	return &permission.Principal{
		User:    &entity.User{ID: id, RoleName: role, Active: true},
		Context: domainperm.RBACContext{RoleID: id * 10, RoleName: role},
		Caps:    caps,
	}
}
