package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Create persiste cabecera y líneas del documento.
func (r *MovementRepo) Create(ctx context.Context, mov *entity.Movement) error {
	if mov.ID == "" {
		mov.ID = uuid.New().String()
	}
	query := `
		INSERT INTO documentos (id, codigo, tipo, estado, fecha, bodega_origen_id, bodega_destino_id, proveedor_id, solicitud_id, observacion, creado_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		mov.ID, mov.Code, mov.Kind, mov.Status, mov.Date,
		nullStr(mov.SourceWarehouse), nullStr(mov.DestWarehouse),
		nullStr(mov.SupplierID), nullStr(mov.RequestID),
		nullStr(mov.Observation), nullStr(mov.CreatedBy), mov.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create documento: código %s duplicado: %w", mov.Code, err)
		}
		return translateErr("create documento", err)
	}

	itemQuery := `
		INSERT INTO documento_items (id, documento_id, producto_id, cantidad, unidad_id, lote_id, costo_unitario, notas, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range mov.Lines {
		line := &mov.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.MovementID = mov.ID
		_, err := r.q.Exec(ctx, itemQuery,
			line.ID, mov.ID, line.ProductID, line.Quantity,
			line.UnitID, nullStr(line.LotID), line.UnitCost,
			nullStr(line.Notes), line.CreatedAt,
		)
		if err != nil {
			return translateErr("create documento item", err)
		}
	}
	return nil
}

// GetByID obtiene cabecera y líneas, o nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `
		SELECT id, codigo, tipo, estado, fecha, bodega_origen_id, bodega_destino_id, proveedor_id, solicitud_id, observacion, creado_por, created_at
		FROM documentos WHERE id = $1`
	mov, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get documento: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Movement{mov}); err != nil {
		return nil, err
	}
	return mov, nil
}

// List devuelve los documentos más recientes primero, con sus líneas.
func (r *MovementRepo) List(ctx context.Context, limit int) ([]*entity.Movement, error) {
	query := `
		SELECT id, codigo, tipo, estado, fecha, bodega_origen_id, bodega_destino_id, proveedor_id, solicitud_id, observacion, creado_por, created_at
		FROM documentos ORDER BY fecha DESC, created_at DESC LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list documentos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		mov, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan documento: %w", err)
		}
		list = append(list, mov)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// StockContributions agrega cantidades de líneas de documentos APROBADO por
// (tipo, con-proveedor). El dominio aplica la tabla de signos sobre esto.
func (r *MovementRepo) StockContributions(ctx context.Context, productID string) ([]entity.StockContribution, error) {
	query := `
		SELECT d.tipo, d.proveedor_id IS NOT NULL, COALESCE(SUM(i.cantidad), 0)
		FROM documento_items i
		JOIN documentos d ON d.id = i.documento_id
		WHERE i.producto_id = $1 AND d.estado = 'APROBADO'
		GROUP BY d.tipo, d.proveedor_id IS NOT NULL`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("stock contributions: %w", err)
	}
	defer rows.Close()

	var out []entity.StockContribution
	for rows.Next() {
		var c entity.StockContribution
		if err := rows.Scan(&c.Kind, &c.HasSupplier, &c.Total); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RecentInboundCosts costos unitarios de las últimas líneas de INGRESO
// aprobadas, de la más reciente a la más antigua.
func (r *MovementRepo) RecentInboundCosts(ctx context.Context, productID string, limit int) ([]decimal.Decimal, error) {
	query := `
		SELECT i.costo_unitario
		FROM documento_items i
		JOIN documentos d ON d.id = i.documento_id
		WHERE i.producto_id = $1
		  AND d.tipo = 'INGRESO' AND d.estado = 'APROBADO'
		  AND i.costo_unitario IS NOT NULL
		ORDER BY d.fecha DESC, i.created_at DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent inbound costs: %w", err)
	}
	defer rows.Close()

	var out []decimal.Decimal
	for rows.Next() {
		var cost decimal.Decimal
		if err := rows.Scan(&cost); err != nil {
			return nil, fmt.Errorf("scan costo: %w", err)
		}
		out = append(out, cost)
	}
	return out, rows.Err()
}

// KardexByProduct líneas recientes del producto con cabecera.
func (r *MovementRepo) KardexByProduct(ctx context.Context, productID string, limit int) ([]*repository.KardexEntry, error) {
	query := kardexSelect + `
		WHERE i.producto_id = $1 AND d.estado = 'APROBADO'
		ORDER BY d.fecha DESC, i.created_at DESC
		LIMIT $2`
	return r.queryKardex(ctx, query, productID, limit)
}

// ApplicationsByLot líneas de SALIDA aprobadas aplicadas al lote.
func (r *MovementRepo) ApplicationsByLot(ctx context.Context, lotID string, limit int) ([]*repository.KardexEntry, error) {
	query := kardexSelect + `
		WHERE i.lote_id = $1 AND d.tipo = 'SALIDA' AND d.estado = 'APROBADO'
		ORDER BY d.fecha DESC, i.created_at DESC
		LIMIT $2`
	return r.queryKardex(ctx, query, lotID, limit)
}

// CountToday documentos con fecha del día de now.
func (r *MovementRepo) CountToday(ctx context.Context, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM documentos
		WHERE fecha >= date_trunc('day', $1::timestamptz)
		  AND fecha < date_trunc('day', $1::timestamptz) + interval '1 day'`
	var count int
	if err := r.q.QueryRow(ctx, query, now).Scan(&count); err != nil {
		return 0, fmt.Errorf("count documentos de hoy: %w", err)
	}
	return count, nil
}

const kardexSelect = `
		SELECT i.id, d.id, d.codigo, d.tipo, d.proveedor_id IS NOT NULL,
		       i.cantidad, i.unidad_id, i.lote_id, i.producto_id,
		       d.bodega_origen_id, d.bodega_destino_id, d.fecha
		FROM documento_items i
		JOIN documentos d ON d.id = i.documento_id`

func (r *MovementRepo) queryKardex(ctx context.Context, query string, args ...any) ([]*repository.KardexEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("kardex: %w", err)
	}
	defer rows.Close()

	var out []*repository.KardexEntry
	for rows.Next() {
		var e repository.KardexEntry
		var lotID, sourceWh, destWh *string
		if err := rows.Scan(&e.LineID, &e.MovementID, &e.Code, &e.Kind, &e.HasSupplier,
			&e.Quantity, &e.UnitID, &lotID, &e.ProductID, &sourceWh, &destWh, &e.Date); err != nil {
			return nil, fmt.Errorf("scan kardex: %w", err)
		}
		e.LotID = strOrEmpty(lotID)
		e.SourceWh = strOrEmpty(sourceWh)
		e.DestWh = strOrEmpty(destWh)
		out = append(out, &e)
	}
	return out, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var sourceWh, destWh, supplierID, requestID, observation, createdBy *string
	err := row.Scan(&m.ID, &m.Code, &m.Kind, &m.Status, &m.Date,
		&sourceWh, &destWh, &supplierID, &requestID, &observation, &createdBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.SourceWarehouse = strOrEmpty(sourceWh)
	m.DestWarehouse = strOrEmpty(destWh)
	m.SupplierID = strOrEmpty(supplierID)
	m.RequestID = strOrEmpty(requestID)
	m.Observation = strOrEmpty(observation)
	m.CreatedBy = strOrEmpty(createdBy)
	return &m, nil
}

// loadLines carga las líneas de todos los documentos en una sola consulta.
func (r *MovementRepo) loadLines(ctx context.Context, movs []*entity.Movement) error {
	if len(movs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Movement, len(movs))
	ids := make([]string, 0, len(movs))
	for _, m := range movs {
		byID[m.ID] = m
		ids = append(ids, m.ID)
	}
	query := `
		SELECT id, documento_id, producto_id, cantidad, unidad_id, lote_id, costo_unitario, notas, created_at
		FROM documento_items WHERE documento_id = ANY($1)
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load documento items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l entity.MovementLine
		var lotID, notes *string
		if err := rows.Scan(&l.ID, &l.MovementID, &l.ProductID, &l.Quantity,
			&l.UnitID, &lotID, &l.UnitCost, &notes, &l.CreatedAt); err != nil {
			return fmt.Errorf("scan documento item: %w", err)
		}
		l.LotID = strOrEmpty(lotID)
		l.Notes = strOrEmpty(notes)
		if m, ok := byID[l.MovementID]; ok {
			m.Lines = append(m.Lines, l)
		}
	}
	return rows.Err()
}
