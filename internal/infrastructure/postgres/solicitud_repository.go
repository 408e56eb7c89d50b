package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.SolicitudRepository = (*SolicitudRepo)(nil)

// constraintIdempotencyKey UNIQUE de idempotency_key; cualquier otra violación de unicidad es el folio.
const constraintIdempotencyKey = "solicitudes_idempotency_key_key"

var solicitudColumns = []string{
	"s.solicitud_id", "s.folio", "s.tipo", "s.fecha", "s.usuario_solicita_id", "s.usuario_autoriza_id",
	"s.estado", "s.observaciones", "COALESCE(s.idempotency_key, '')", "s.created_at", "s.updated_at",
	"COALESCE(us.nombre, '')", "COALESCE(ua.nombre, '')",
}

// SolicitudRepo cabeceras y partidas de solicitudes.
type SolicitudRepo struct {
	q Querier
}

// NewSolicitudRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSolicitudRepository(q Querier) *SolicitudRepo {
	return &SolicitudRepo{q: q}
}

func selectSolicitudes() squirrel.SelectBuilder {
	return psql.Select(solicitudColumns...).
		From("solicitudes s").
		LeftJoin("usuarios us ON us.usuario_id = s.usuario_solicita_id").
		LeftJoin("usuarios ua ON ua.usuario_id = s.usuario_autoriza_id")
}

// Create inserta cabecera y partidas. Debe llamarse dentro de una tx para que
// cabecera y partidas queden juntas.
func (r *SolicitudRepo) Create(ctx context.Context, s *entity.Solicitud) error {
	query := `
		INSERT INTO solicitudes (folio, tipo, fecha, usuario_solicita_id, estado, observaciones, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING solicitud_id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		s.Folio, string(s.Tipo), s.Fecha, s.UsuarioSolicitaID, string(s.Estado), s.Observaciones,
		nullableString(s.IdempotencyKey),
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			if constraintName(err) == constraintIdempotencyKey {
				return repository.ErrIdempotencyKeyTaken
			}
			return repository.ErrFolioTaken
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert solicitud: usuario %d inexistente: %w", s.UsuarioSolicitaID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert solicitud: %w", err)
	}

	if len(s.Items) == 0 {
		return nil
	}
	ib := psql.Insert("solicitud_items").
		Columns("solicitud_id", "article_id", "cantidad", "precio_unitario", "observaciones").
		Suffix("RETURNING item_id")
	for _, it := range s.Items {
		ib = ib.Values(s.ID, it.ArticleID, it.Cantidad, it.PrecioUnitario, it.Observaciones)
	}
	itemsSQL, args, err := ib.ToSql()
	if err != nil {
		return fmt.Errorf("build insert partidas: %w", err)
	}
	rows, err := r.q.Query(ctx, itemsSQL, args...)
	if err != nil {
		return fmt.Errorf("insert partidas: %w", err)
	}
	defer rows.Close()
	i := 0
	for rows.Next() {
		if i >= len(s.Items) {
			break
		}
		if err := rows.Scan(&s.Items[i].ID); err != nil {
			return fmt.Errorf("scan partida: %w", err)
		}
		s.Items[i].SolicitudID = s.ID
		i++
	}
	if err := rows.Err(); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert partidas: artículo inexistente: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert partidas: %w", err)
	}
	return nil
}

// GetByID cabecera con partidas; (nil, nil) si no existe.
func (r *SolicitudRepo) GetByID(ctx context.Context, id int64) (*entity.Solicitud, error) {
	return r.getOne(ctx, squirrel.Eq{"s.solicitud_id": id})
}

// GetByFolio cabecera con partidas por folio.
func (r *SolicitudRepo) GetByFolio(ctx context.Context, folio string) (*entity.Solicitud, error) {
	return r.getOne(ctx, squirrel.Eq{"s.folio": folio})
}

// GetByIdempotencyKey solicitud creada previamente con la misma clave.
func (r *SolicitudRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Solicitud, error) {
	return r.getOne(ctx, squirrel.Eq{"s.idempotency_key": key})
}

func (r *SolicitudRepo) getOne(ctx context.Context, where squirrel.Eq) (*entity.Solicitud, error) {
	query, args, err := selectSolicitudes().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get solicitud: %w", err)
	}
	s, err := scanSolicitud(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get solicitud: %w", err)
	}
	items, err := r.ListItems(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

// List cabeceras filtradas, más recientes primero, con sus partidas.
func (r *SolicitudRepo) List(ctx context.Context, f repository.SolicitudFilter) ([]*entity.Solicitud, error) {
	sb := selectSolicitudes().OrderBy("s.created_at DESC", "s.solicitud_id DESC")
	if f.Estado != "" {
		sb = sb.Where(squirrel.Eq{"s.estado": string(f.Estado)})
	}
	if f.Tipo != "" {
		sb = sb.Where(squirrel.Eq{"s.tipo": string(f.Tipo)})
	}
	if f.UsuarioSolicitaID > 0 {
		sb = sb.Where(squirrel.Eq{"s.usuario_solicita_id": f.UsuarioSolicitaID})
	}
	if f.Limit > 0 {
		sb = sb.Limit(uint64(f.Limit))
	}
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list solicitudes: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list solicitudes: %w", err)
	}
	var out []*entity.Solicitud
	byID := make(map[int64]*entity.Solicitud)
	for rows.Next() {
		s, err := scanSolicitud(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan solicitud: %w", err)
		}
		s.Items = []entity.SolicitudItem{}
		out = append(out, s)
		byID[s.ID] = s
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list solicitudes: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(out))
	for _, s := range out {
		ids = append(ids, s.ID)
	}
	items, err := r.listItemsWhere(ctx, squirrel.Eq{"i.solicitud_id": ids})
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if s := byID[it.SolicitudID]; s != nil {
			s.Items = append(s.Items, it)
		}
	}
	return out, nil
}

// GetForUpdate bloquea la cabecera hasta el fin de la tx. Sin JOINs ni partidas.
func (r *SolicitudRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Solicitud, error) {
	query := `
		SELECT solicitud_id, folio, tipo, estado, observaciones, usuario_solicita_id, usuario_autoriza_id
		FROM solicitudes WHERE solicitud_id = $1
		FOR UPDATE`
	var (
		s      entity.Solicitud
		tipo   string
		estado string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Folio, &tipo, &estado, &s.Observaciones, &s.UsuarioSolicitaID, &s.UsuarioAutorizaID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get solicitud for update: %w", err)
	}
	s.Tipo, s.Estado = entity.SolicitudTipo(tipo), entity.Estado(estado)
	return &s, nil
}

// ListItems partidas de una solicitud con código y nombre del artículo.
func (r *SolicitudRepo) ListItems(ctx context.Context, solicitudID int64) ([]entity.SolicitudItem, error) {
	return r.listItemsWhere(ctx, squirrel.Eq{"i.solicitud_id": solicitudID})
}

func (r *SolicitudRepo) listItemsWhere(ctx context.Context, where squirrel.Sqlizer) ([]entity.SolicitudItem, error) {
	query, args, err := psql.Select(
		"i.item_id", "i.solicitud_id", "i.article_id", "i.cantidad", "i.precio_unitario", "i.observaciones",
		"a.code", "a.name",
	).
		From("solicitud_items i").
		Join("articulos a ON a.article_id = i.article_id").
		Where(where).
		OrderBy("i.solicitud_id", "i.item_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list partidas: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list partidas: %w", err)
	}
	defer rows.Close()
	items := []entity.SolicitudItem{}
	for rows.Next() {
		var it entity.SolicitudItem
		if err := rows.Scan(&it.ID, &it.SolicitudID, &it.ArticleID, &it.Cantidad, &it.PrecioUnitario,
			&it.Observaciones, &it.ArticleCode, &it.ArticleName); err != nil {
			return nil, fmt.Errorf("scan partida: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateDecision aplica estado, autorizador y observaciones. Un autorizador 0
// conserva el que ya tenía la cabecera.
func (r *SolicitudRepo) UpdateDecision(ctx context.Context, id int64, d repository.Decision) error {
	query := `
		UPDATE solicitudes
		SET estado = $2,
		    usuario_autoriza_id = COALESCE($3, usuario_autoriza_id),
		    observaciones = $4,
		    updated_at = $5
		WHERE solicitud_id = $1`
	updatedAt := d.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	tag, err := r.q.Exec(ctx, query, id, string(d.Estado), nullableID(d.UsuarioAutorizaID), d.Observaciones, updatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("update solicitud: usuario %d inexistente: %w", d.UsuarioAutorizaID, domain.ErrNotFound)
		}
		return fmt.Errorf("update solicitud: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("solicitud %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanSolicitud(row pgx.Row) (*entity.Solicitud, error) {
	var (
		s      entity.Solicitud
		tipo   string
		estado string
	)
	err := row.Scan(
		&s.ID, &s.Folio, &tipo, &s.Fecha, &s.UsuarioSolicitaID, &s.UsuarioAutorizaID,
		&estado, &s.Observaciones, &s.IdempotencyKey, &s.CreatedAt, &s.UpdatedAt,
		&s.SolicitanteNombre, &s.AutorizadorNombre,
	)
	if err != nil {
		return nil, err
	}
	s.Tipo, s.Estado = entity.SolicitudTipo(tipo), entity.Estado(estado)
	return &s, nil
}
