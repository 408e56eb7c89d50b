package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ArticleRepository lectura del catálogo de artículos (el CRUD vive fuera del núcleo).
type ArticleRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Article, error)
	// ExistingIDs devuelve el subconjunto de ids que existen en el catálogo.
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}
