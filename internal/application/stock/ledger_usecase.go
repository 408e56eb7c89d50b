package stock

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	domainstock "github.com/jhoicas/almacen-api/internal/domain/stock"
)

const (
	defaultStockPage = 50
	maxStockPage     = 500
	defaultKardex    = 200
)

// LedgerUseCase lecturas de existencias y validación de suficiencia.
// Siempre recalcula desde las tablas de movimientos; no cachea.
type LedgerUseCase struct {
	stockRepo   repository.StockRepository
	articleRepo repository.ArticleRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(stockRepo repository.StockRepository, articleRepo repository.ArticleRepository) *LedgerUseCase {
	return &LedgerUseCase{stockRepo: stockRepo, articleRepo: articleRepo}
}

// CurrentStock stock actual de un artículo (0 si no tiene movimientos).
func (uc *LedgerUseCase) CurrentStock(ctx context.Context, articleID int64) (int64, error) {
	if articleID <= 0 {
		return 0, domain.NewValidationError("article_id", "requerido")
	}
	return uc.stockRepo.CurrentStock(ctx, articleID)
}

// BulkStock stock de varios artículos en una sola consulta.
func (uc *LedgerUseCase) BulkStock(ctx context.Context, articleIDs []int64) (map[int64]int64, error) {
	ids := uniqueIDs(articleIDs)
	if len(ids) == 0 {
		return map[int64]int64{}, nil
	}
	return uc.stockRepo.BulkStock(ctx, ids)
}

// ListStock listado paginado de existencias para GET /api/almacen/stock.
func (uc *LedgerUseCase) ListStock(ctx context.Context, search string, onlyLow bool, page dto.PageRequest) ([]dto.StockItemDTO, error) {
	if page.Limit <= 0 {
		page.Limit = defaultStockPage
	}
	if page.Limit > maxStockPage {
		page.Limit = maxStockPage
	}
	if page.Offset < 0 {
		page.Offset = 0
	}
	rows, err := uc.stockRepo.ListStock(ctx, repository.StockFilter{
		Search:       search,
		OnlyLowStock: onlyLow,
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockItemDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockItemDTO{
			ArticleID:  r.ArticleID,
			Code:       r.Code,
			Name:       r.Name,
			Size:       r.Size,
			UnitCode:   r.UnitCode,
			StockMin:   r.StockMin,
			StockMax:   r.StockMax,
			Stock:      r.Stock,
			BajoMinimo: r.Stock < r.StockMin,
		})
	}
	return out, nil
}

// ValidateSufficiency compara el stock actual contra la cantidad pedida.
// La insuficiencia es un resultado normal, no un error.
func (uc *LedgerUseCase) ValidateSufficiency(ctx context.Context, articleID, qty int64) (domainstock.Sufficiency, error) {
	if articleID <= 0 {
		return domainstock.Sufficiency{}, domain.NewValidationError("article_id", "requerido")
	}
	if qty <= 0 {
		return domainstock.Sufficiency{}, domain.NewValidationError("quantity", "debe ser mayor a 0")
	}
	current, err := uc.stockRepo.CurrentStock(ctx, articleID)
	if err != nil {
		return domainstock.Sufficiency{}, err
	}
	return domainstock.Check(articleID, current, qty), nil
}

// ItemRequest artículo y cantidad a validar.
type ItemRequest struct {
	ArticleID int64
	Quantity  int64
}

// BatchResult resultado de ValidateMany.
type BatchResult struct {
	AllSufficient bool
	PerItem       []domainstock.Sufficiency
	Insufficient  []domainstock.Sufficiency
}

// ValidateMany evalúa cada partida por separado contra el stock completo.
// No reserva stock entre partidas: dos partidas del mismo artículo se validan
// cada una contra el total.
func (uc *LedgerUseCase) ValidateMany(ctx context.Context, items []ItemRequest) (*BatchResult, error) {
	ids := make([]int64, 0, len(items))
	for i, it := range items {
		if it.ArticleID <= 0 {
			return nil, domain.NewValidationError(itemField(i, "article_id"), "requerido")
		}
		if it.Quantity <= 0 {
			return nil, domain.NewValidationError(itemField(i, "quantity"), "debe ser mayor a 0")
		}
		ids = append(ids, it.ArticleID)
	}
	stocks, err := uc.BulkStock(ctx, ids)
	if err != nil {
		return nil, err
	}
	res := &BatchResult{
		AllSufficient: true,
		PerItem:       make([]domainstock.Sufficiency, 0, len(items)),
		Insufficient:  []domainstock.Sufficiency{},
	}
	for _, it := range items {
		s := domainstock.Check(it.ArticleID, stocks[it.ArticleID], it.Quantity)
		res.PerItem = append(res.PerItem, s)
		if !s.Sufficient {
			res.AllSufficient = false
			res.Insufficient = append(res.Insufficient, s)
		}
	}
	return res, nil
}

// Kardex historial de movimientos de un artículo con saldo acumulado.
func (uc *LedgerUseCase) Kardex(ctx context.Context, articleID int64, limit int) ([]dto.KardexRowDTO, error) {
	article, err := uc.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 || limit > 1000 {
		limit = defaultKardex
	}
	movs, err := uc.stockRepo.Kardex(ctx, articleID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.KardexRowDTO, 0, len(movs))
	for _, m := range movs {
		out = append(out, toKardexDTO(m))
	}
	return out, nil
}

func toKardexDTO(m entity.Movement) dto.KardexRowDTO {
	return dto.KardexRowDTO{
		Type:      m.Type,
		ID:        m.ID,
		Quantity:  m.Quantity,
		Reference: m.Reference,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
		Balance:   m.Balance,
	}
}

// ToValidationDTO convierte una suficiencia al formato de la API.
func ToValidationDTO(s domainstock.Sufficiency) dto.StockValidationDTO {
	return dto.StockValidationDTO{
		ArticleID:       s.ArticleID,
		Quantity:        s.Requested,
		StockSuficiente: s.Sufficient,
		StockActual:     s.CurrentStock,
		StockRestante:   s.Remaining,
	}
}
