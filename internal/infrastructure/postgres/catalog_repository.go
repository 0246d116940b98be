package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo lecturas de catálogo sobre PostgreSQL (usable con pool o tx).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func (r *CatalogRepo) GetUnit(ctx context.Context, id string) (*entity.Unit, error) {
	var u entity.Unit
	err := r.q.QueryRow(ctx, `SELECT id, nombre, abreviatura FROM unidades WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Abbreviation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unidad: %w", err)
	}
	return &u, nil
}

func (r *CatalogRepo) GetWarehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, `SELECT id, nombre FROM bodegas WHERE id = $1`, id).
		Scan(&w.ID, &w.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bodega: %w", err)
	}
	return &w, nil
}

func (r *CatalogRepo) GetSupplier(ctx context.Context, id string) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.q.QueryRow(ctx, `SELECT id, nombre, nit FROM proveedores WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.NIT)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get proveedor: %w", err)
	}
	return &s, nil
}

func (r *CatalogRepo) GetLot(ctx context.Context, id string) (*entity.Lot, error) {
	var l entity.Lot
	err := r.q.QueryRow(ctx, `SELECT id, codigo, finca_id, cultivo, area_manzanas, estado, created_at FROM lotes WHERE id = $1`, id).
		Scan(&l.ID, &l.Code, &l.FarmID, &l.CropName, &l.AreaManzanas, &l.Status, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	return &l, nil
}

func (r *CatalogRepo) ListWarehouses(ctx context.Context) ([]*entity.Warehouse, error) {
	rows, err := r.q.Query(ctx, `SELECT id, nombre FROM bodegas ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list bodegas: %w", err)
	}
	defer rows.Close()

	var out []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.Name); err != nil {
			return nil, fmt.Errorf("scan bodega: %w", err)
		}
		out = append(out, &w)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) ListSuppliers(ctx context.Context) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, `SELECT id, nombre, nit FROM proveedores ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list proveedores: %w", err)
	}
	defer rows.Close()

	var out []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.NIT); err != nil {
			return nil, fmt.Errorf("scan proveedor: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, nombre FROM categorias ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list categorias: %w", err)
	}
	defer rows.Close()

	var out []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan categoria: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// ListFarmsWithOpenLots fincas con sus lotes ABIERTO, para el selector de
// destino de aplicaciones.
func (r *CatalogRepo) ListFarmsWithOpenLots(ctx context.Context) ([]*repository.FarmWithLots, error) {
	query := `
		SELECT f.id, f.nombre, l.id, l.codigo, l.finca_id, l.cultivo, l.area_manzanas, l.estado, l.created_at
		FROM fincas f
		LEFT JOIN lotes l ON l.finca_id = f.id AND l.estado = 'ABIERTO'
		ORDER BY f.nombre, l.codigo`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list fincas con lotes: %w", err)
	}
	defer rows.Close()

	var out []*repository.FarmWithLots
	byFarm := map[string]*repository.FarmWithLots{}
	for rows.Next() {
		var farm entity.Farm
		var lotID, lotCode, lotFarmID, lotCrop, lotStatus *string
		var lotArea *float64
		var lotCreated *time.Time
		if err := rows.Scan(&farm.ID, &farm.Name,
			&lotID, &lotCode, &lotFarmID, &lotCrop, &lotArea, &lotStatus, &lotCreated); err != nil {
			return nil, fmt.Errorf("scan finca: %w", err)
		}
		fw, ok := byFarm[farm.ID]
		if !ok {
			fw = &repository.FarmWithLots{Farm: farm}
			byFarm[farm.ID] = fw
			out = append(out, fw)
		}
		if lotID != nil {
			lot := entity.Lot{
				ID:     *lotID,
				Code:   strOrEmpty(lotCode),
				FarmID: strOrEmpty(lotFarmID),
				Status: entity.LotOpen,
			}
			lot.CropName = strOrEmpty(lotCrop)
			lot.AreaManzanas = lotArea
			if lotCreated != nil {
				lot.CreatedAt = *lotCreated
			}
			fw.Lots = append(fw.Lots, lot)
		}
	}
	return out, rows.Err()
}
