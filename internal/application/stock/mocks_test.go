package stock

import (
	"context"
	"errors"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var errDB = errors.New("db caída")

type stockRepoMock struct {
	CurrentStockFunc func(ctx context.Context, articleID int64) (int64, error)
	BulkStockFunc    func(ctx context.Context, ids []int64) (map[int64]int64, error)
	ListStockFunc    func(ctx context.Context, f repository.StockFilter) ([]repository.StockRow, error)
	LockArticlesFunc func(ctx context.Context, ids []int64) error
	KardexFunc       func(ctx context.Context, articleID int64, limit int) ([]entity.Movement, error)

	locked [][]int64
}

func (m *stockRepoMock) CurrentStock(ctx context.Context, articleID int64) (int64, error) {
	return m.CurrentStockFunc(ctx, articleID)
}

func (m *stockRepoMock) BulkStock(ctx context.Context, ids []int64) (map[int64]int64, error) {
	return m.BulkStockFunc(ctx, ids)
}

func (m *stockRepoMock) ListStock(ctx context.Context, f repository.StockFilter) ([]repository.StockRow, error) {
	return m.ListStockFunc(ctx, f)
}

func (m *stockRepoMock) LockArticles(ctx context.Context, ids []int64) error {
	m.locked = append(m.locked, append([]int64(nil), ids...))
	if m.LockArticlesFunc == nil {
		return nil
	}
	return m.LockArticlesFunc(ctx, ids)
}

func (m *stockRepoMock) Kardex(ctx context.Context, articleID int64, limit int) ([]entity.Movement, error) {
	return m.KardexFunc(ctx, articleID, limit)
}

type articleRepoMock struct {
	articles map[int64]*entity.Article
}

func (m *articleRepoMock) GetByID(_ context.Context, id int64) (*entity.Article, error) {
	return m.articles[id], nil
}

func (m *articleRepoMock) ExistingIDs(_ context.Context, ids []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if _, ok := m.articles[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func articles(ids ...int64) *articleRepoMock {
	m := &articleRepoMock{articles: map[int64]*entity.Article{}}
	for _, id := range ids {
		m.articles[id] = &entity.Article{ID: id, Code: "ART", Name: "Artículo"}
	}
	return m
}

type movementRepoMock struct {
	entries     []*entity.Entry
	exits       []*entity.Exit
	adjustments []*entity.Adjustment
	nextID      int64
}

func (m *movementRepoMock) CreateEntry(_ context.Context, e *entity.Entry) error {
	m.nextID++
	e.ID = m.nextID
	m.entries = append(m.entries, e)
	return nil
}

func (m *movementRepoMock) CreateExit(_ context.Context, e *entity.Exit) error {
	m.nextID++
	e.ID = m.nextID
	m.exits = append(m.exits, e)
	return nil
}

func (m *movementRepoMock) CreateAdjustment(_ context.Context, a *entity.Adjustment) error {
	m.nextID++
	a.ID = m.nextID
	m.adjustments = append(m.adjustments, a)
	return nil
}

func (m *movementRepoMock) ListExitsBySolicitud(_ context.Context, solicitudID int64) ([]*entity.Exit, error) {
	var out []*entity.Exit
	for _, e := range m.exits {
		if e.SolicitudID != nil && *e.SolicitudID == solicitudID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ledgerFake calcula stock a partir de lo que registró movementRepoMock más un saldo inicial.
func ledgerFake(initial map[int64]int64, movs *movementRepoMock) *stockRepoMock {
	current := func(id int64) int64 {
		total := initial[id]
		for _, e := range movs.entries {
			if e.ArticleID == id {
				total += e.Quantity
			}
		}
		for _, e := range movs.exits {
			if e.ArticleID == id {
				total -= e.Quantity
			}
		}
		for _, a := range movs.adjustments {
			if a.ArticleID == id {
				total += a.Quantity
			}
		}
		return total
	}
	return &stockRepoMock{
		CurrentStockFunc: func(_ context.Context, id int64) (int64, error) { return current(id), nil },
		BulkStockFunc: func(_ context.Context, ids []int64) (map[int64]int64, error) {
			out := make(map[int64]int64, len(ids))
			for _, id := range ids {
				out[id] = current(id)
			}
			return out, nil
		},
	}
}

// fakeTxRunner ejecuta fn con repos fijos; committed indica si fn terminó sin error.
type fakeTxRunner struct {
	repos     repository.TxRepos
	calls     int
	committed int
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error {
	r.calls++
	if err := fn(ctx, r.repos); err != nil {
		return err
	}
	r.committed++
	return nil
}
