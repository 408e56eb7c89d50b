package stock

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	domainstock "github.com/jhoicas/almacen-api/internal/domain/stock"
)

// MovementUseCase registro de entradas, salidas y ajustes.
// Toda escritura que reduce stock toma el lock de sus artículos y recalcula
// dentro de la misma transacción.
type MovementUseCase struct {
	txRunner    TxRunner
	articleRepo repository.ArticleRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner TxRunner, articleRepo repository.ArticleRepository) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, articleRepo: articleRepo}
}

// RegisterEntry registra una entrada y devuelve el stock resultante.
func (uc *MovementUseCase) RegisterEntry(ctx context.Context, userID int64, in dto.RegisterEntryRequest) (*dto.MovementCreatedDTO, error) {
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor a 0")
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.NewValidationError("unit_cost", "no puede ser negativo")
	}
	if err := uc.requireArticle(ctx, in.ArticleID); err != nil {
		return nil, err
	}
	entry := &entity.Entry{
		ArticleID:     in.ArticleID,
		Quantity:      in.Quantity,
		UnitCost:      in.UnitCost,
		InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
		Supplier:      strings.TrimSpace(in.Supplier),
		UserID:        userID,
	}
	var stockAfter int64
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		if err := repos.Movements.CreateEntry(ctx, entry); err != nil {
			return err
		}
		s, err := repos.Stock.CurrentStock(ctx, in.ArticleID)
		if err != nil {
			return err
		}
		stockAfter = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.MovementCreatedDTO{Success: true, ID: entry.ID, Stock: stockAfter}, nil
}

// RegisterExit registra una salida directa. Falla con InsufficientStockError
// si el stock no alcanza al momento de escribir.
func (uc *MovementUseCase) RegisterExit(ctx context.Context, userID int64, in dto.RegisterExitRequest) (*dto.MovementCreatedDTO, error) {
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor a 0")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, domain.NewValidationError("reason", "requerido")
	}
	if err := uc.requireArticle(ctx, in.ArticleID); err != nil {
		return nil, err
	}
	if in.UserID > 0 {
		userID = in.UserID
	}
	exit := &entity.Exit{
		ArticleID: in.ArticleID,
		Quantity:  in.Quantity,
		Reason:    strings.TrimSpace(in.Reason),
		UserID:    userID,
	}
	var stockAfter int64
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		if err := RegisterExitsInTx(ctx, repos, []*entity.Exit{exit}); err != nil {
			return err
		}
		s, err := repos.Stock.CurrentStock(ctx, in.ArticleID)
		if err != nil {
			return err
		}
		stockAfter = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.MovementCreatedDTO{Success: true, ID: exit.ID, Stock: stockAfter}, nil
}

// RegisterAdjustment registra un ajuste con signo. Un ajuste negativo no
// puede dejar el stock por debajo de cero.
func (uc *MovementUseCase) RegisterAdjustment(ctx context.Context, userID int64, in dto.RegisterAdjustmentRequest) (*dto.MovementCreatedDTO, error) {
	if in.Quantity == 0 {
		return nil, domain.NewValidationError("quantity", "no puede ser 0")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, domain.NewValidationError("reason", "requerido")
	}
	if err := uc.requireArticle(ctx, in.ArticleID); err != nil {
		return nil, err
	}
	adj := &entity.Adjustment{
		ArticleID: in.ArticleID,
		Quantity:  in.Quantity,
		Reason:    strings.TrimSpace(in.Reason),
		UserID:    userID,
	}
	var stockAfter int64
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		if adj.Quantity < 0 {
			if err := repos.Stock.LockArticles(ctx, []int64{adj.ArticleID}); err != nil {
				return err
			}
			current, err := repos.Stock.CurrentStock(ctx, adj.ArticleID)
			if err != nil {
				return err
			}
			if s := domainstock.Check(adj.ArticleID, current, -adj.Quantity); !s.Sufficient {
				return &domain.InsufficientStockError{ArticleID: adj.ArticleID, Current: current, Requested: -adj.Quantity}
			}
		}
		if err := repos.Movements.CreateAdjustment(ctx, adj); err != nil {
			return err
		}
		s, err := repos.Stock.CurrentStock(ctx, adj.ArticleID)
		if err != nil {
			return err
		}
		stockAfter = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.MovementCreatedDTO{Success: true, ID: adj.ID, Stock: stockAfter}, nil
}

func (uc *MovementUseCase) requireArticle(ctx context.Context, articleID int64) error {
	if articleID <= 0 {
		return domain.NewValidationError("article_id", "requerido")
	}
	a, err := uc.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return err
	}
	if a == nil {
		return domain.NewValidationError("article_id", fmt.Sprintf("artículo %d no existe", articleID))
	}
	return nil
}

// RegisterExitsInTx escribe varias salidas dentro de una transacción ya abierta.
// Toma el lock de los artículos en orden ascendente, recalcula el stock y
// rechaza el lote completo si algún artículo no alcanza para la demanda total.
func RegisterExitsInTx(ctx context.Context, repos repository.TxRepos, exits []*entity.Exit) error {
	if len(exits) == 0 {
		return nil
	}
	demand := domainstock.NewDemand()
	for _, e := range exits {
		demand.Add(e.ArticleID, e.Quantity)
	}
	ids := uniqueIDs(demand.ArticleIDs())
	if err := repos.Stock.LockArticles(ctx, ids); err != nil {
		return err
	}
	stocks, err := repos.Stock.BulkStock(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range demand.ArticleIDs() {
		requested := demand.Total(id)
		if s := domainstock.Check(id, stocks[id], requested); !s.Sufficient {
			return &domain.InsufficientStockError{ArticleID: id, Current: s.CurrentStock, Requested: requested}
		}
	}
	for _, e := range exits {
		if err := repos.Movements.CreateExit(ctx, e); err != nil {
			return fmt.Errorf("registrar salida del artículo %d: %w", e.ArticleID, err)
		}
	}
	return nil
}
