package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
	"github.com/agrocampo/bodega-api/pkg/normalize"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de productos sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, codigo, nombre, ingrediente_activo, categoria_id, unidad_id, activo, precio_ref, created_at, updated_at`

// GetByID obtiene el producto o nil.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetForUpdate obtiene el producto bloqueando su fila (SELECT FOR UPDATE).
// Usar solo dentro de una transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *ProductRepo) getOne(ctx context.Context, query, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateErr("get producto", err)
	}
	return p, nil
}

// List devuelve todos los productos ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos ORDER BY nombre`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Search busca productos activos por nombre o código, insensible a mayúsculas
// y tildes. La columna nombre_normalizado guarda el nombre ya plegado
// (minúsculas, sin tildes) y se mantiene al escribir el catálogo.
func (r *ProductRepo) Search(ctx context.Context, term string, limit int) ([]*entity.Product, error) {
	folded := "%" + normalize.Fold(term) + "%"
	query := `
		SELECT ` + productColumns + ` FROM productos
		WHERE activo = true
		  AND (nombre_normalizado LIKE $1 OR lower(codigo) LIKE $1)
		ORDER BY nombre
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, folded, limit)
	if err != nil {
		return nil, fmt.Errorf("search productos: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateReferencePrice escribe el precio de referencia derivado.
func (r *ProductRepo) UpdateReferencePrice(ctx context.Context, productID string, price decimal.Decimal) error {
	query := `UPDATE productos SET precio_ref = $1, updated_at = now() WHERE id = $2`
	tag, err := r.q.Exec(ctx, query, price, productID)
	if err != nil {
		return fmt.Errorf("update precio_ref: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update precio_ref: producto %s no existe", productID)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var activeIngredient *string
	err := row.Scan(&p.ID, &p.Code, &p.Name, &activeIngredient, &p.CategoryID,
		&p.UnitID, &p.Active, &p.ReferencePrice, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ActiveIngredient = strOrEmpty(activeIngredient)
	return &p, nil
}
