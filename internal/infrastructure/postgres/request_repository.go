package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

// RequestRepo implementación de solicitudes sobre PostgreSQL (usable con pool o tx).
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

const requestColumns = `id, codigo, tipo, estado, solicitante_id, aprobador_id, bodega_id, fecha, solicitud_origen_id, documento_id, created_at, updated_at`

// Create persiste cabecera y líneas de la solicitud.
func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	query := `
		INSERT INTO solicitudes (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.Code, req.Kind, req.Status,
		req.RequesterID, nullStr(req.ApproverID), req.WarehouseID, req.Date,
		nullStr(req.OriginRequestID), nullStr(req.MovementID),
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create solicitud: código %s duplicado: %w", req.Code, err)
		}
		return translateErr("create solicitud", err)
	}

	itemQuery := `
		INSERT INTO solicitud_items (id, solicitud_id, producto_id, cantidad, unidad_id, lote_id, notas)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range req.Lines {
		line := &req.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.RequestID = req.ID
		_, err := r.q.Exec(ctx, itemQuery,
			line.ID, req.ID, line.ProductID, line.Quantity,
			line.UnitID, nullStr(line.LotID), nullStr(line.Notes),
		)
		if err != nil {
			return translateErr("create solicitud item", err)
		}
	}
	return nil
}

// GetByID obtiene cabecera y líneas, o nil si no existe.
func (r *RequestRepo) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM solicitudes WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetForUpdate obtiene la solicitud bloqueando su fila (SELECT FOR UPDATE).
// Usar solo dentro de una transacción.
func (r *RequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM solicitudes WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *RequestRepo) getOne(ctx context.Context, query, id string) (*entity.Request, error) {
	req, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateErr("get solicitud", err)
	}
	if err := r.loadLines(ctx, []*entity.Request{req}); err != nil {
		return nil, err
	}
	return req, nil
}

// List filtra por estado y solicitante, más recientes primero.
func (r *RequestRepo) List(ctx context.Context, filter repository.RequestFilter) ([]*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM solicitudes WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Status != "" {
		query += fmt.Sprintf(" AND estado = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.RequesterID != "" {
		query += fmt.Sprintf(" AND solicitante_id = $%d", pos)
		args = append(args, filter.RequesterID)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list solicitudes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan solicitud: %w", err)
		}
		list = append(list, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus cambia el estado solo si el actual coincide con from (guarda
// optimista). Devuelve false si otra transición ganó la carrera.
func (r *RequestRepo) UpdateStatus(ctx context.Context, id string, from, to entity.RequestStatus, approverID, movementID string) (bool, error) {
	query := `
		UPDATE solicitudes
		SET estado = $1,
		    aprobador_id = COALESCE($2, aprobador_id),
		    documento_id = COALESCE($3, documento_id),
		    updated_at = now()
		WHERE id = $4 AND estado = $5`
	tag, err := r.q.Exec(ctx, query, to, nullStr(approverID), nullStr(movementID), id, from)
	if err != nil {
		return false, translateErr("update estado solicitud", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SumOpenDispatchQuantity stock comprometido: suma de líneas DESPACHO en
// solicitudes PENDIENTE o APROBADA.
func (r *RequestRepo) SumOpenDispatchQuantity(ctx context.Context, productID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(i.cantidad), 0)
		FROM solicitud_items i
		JOIN solicitudes s ON s.id = i.solicitud_id
		WHERE i.producto_id = $1
		  AND s.tipo = 'DESPACHO'
		  AND s.estado IN ('PENDIENTE', 'APROBADA')`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum comprometido: %w", err)
	}
	return total, nil
}

// FindActiveReturnByOrigin devolución no rechazada contra el despacho origen,
// o nil si no existe.
func (r *RequestRepo) FindActiveReturnByOrigin(ctx context.Context, originRequestID string) (*entity.Request, error) {
	query := `
		SELECT ` + requestColumns + ` FROM solicitudes
		WHERE tipo = 'DEVOLUCION' AND solicitud_origen_id = $1 AND estado <> 'RECHAZADA'
		LIMIT 1`
	req, err := scanRequest(r.q.QueryRow(ctx, query, originRequestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find devolución activa: %w", err)
	}
	return req, nil
}

// CountPending solicitudes pendientes (dashboard).
func (r *RequestRepo) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM solicitudes WHERE estado = 'PENDIENTE'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pendientes: %w", err)
	}
	return count, nil
}

func scanRequest(row pgx.Row) (*entity.Request, error) {
	var req entity.Request
	var approverID, originID, movementID *string
	err := row.Scan(&req.ID, &req.Code, &req.Kind, &req.Status,
		&req.RequesterID, &approverID, &req.WarehouseID, &req.Date,
		&originID, &movementID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	req.ApproverID = strOrEmpty(approverID)
	req.OriginRequestID = strOrEmpty(originID)
	req.MovementID = strOrEmpty(movementID)
	return &req, nil
}

func (r *RequestRepo) loadLines(ctx context.Context, reqs []*entity.Request) error {
	if len(reqs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Request, len(reqs))
	ids := make([]string, 0, len(reqs))
	for _, req := range reqs {
		byID[req.ID] = req
		ids = append(ids, req.ID)
	}
	query := `
		SELECT id, solicitud_id, producto_id, cantidad, unidad_id, lote_id, notas
		FROM solicitud_items WHERE solicitud_id = ANY($1)`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load solicitud items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l entity.RequestLine
		var lotID, notes *string
		if err := rows.Scan(&l.ID, &l.RequestID, &l.ProductID, &l.Quantity,
			&l.UnitID, &lotID, &notes); err != nil {
			return fmt.Errorf("scan solicitud item: %w", err)
		}
		l.LotID = strOrEmpty(lotID)
		l.Notes = strOrEmpty(notes)
		if req, ok := byID[l.RequestID]; ok {
			req.Lines = append(req.Lines, l)
		}
	}
	return rows.Err()
}
