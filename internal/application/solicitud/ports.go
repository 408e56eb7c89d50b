package solicitud

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/permission"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domainperm "github.com/jhoicas/almacen-api/internal/domain/permission"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepos) error) error
}

// PrincipalResolver obtiene el usuario con sus capacidades (implementado por permission.Gate).
type PrincipalResolver interface {
	Resolve(ctx context.Context, userID int64) (*permission.Principal, error)
}

// PDFGenerator genera el comprobante PDF de una solicitud.
type PDFGenerator interface {
	Generate(s *entity.Solicitud) ([]byte, error)
}

// ExitMode momento en que una solicitud SALIDA descuenta stock.
type ExitMode string

// Modos de salida.
const (
	ExitOnCreate    ExitMode = "on_create"
	ExitOnAuthorize ExitMode = "on_authorize"
)

// Options parámetros del flujo de solicitudes.
type Options struct {
	ExitMode          ExitMode
	FolioRetries      int
	Authorizers       domainperm.AllowList
	StrictAuthorizers bool
	Now               func() time.Time
}

func (o Options) withDefaults() Options {
	if o.ExitMode == "" {
		o.ExitMode = ExitOnCreate
	}
	if o.FolioRetries <= 0 {
		o.FolioRetries = 3
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
