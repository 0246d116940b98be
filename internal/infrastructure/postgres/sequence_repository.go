package postgres

import (
	"context"

	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo generador de consecutivos sobre PostgreSQL. El upsert con
// RETURNING es atómico a nivel de fila: dos transacciones concurrentes para
// el mismo (tipo, año) se serializan sobre la fila del contador y nunca
// reciben el mismo ordinal.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa el contador de (tipo, año), creándolo en 1, y devuelve el
// ordinal asignado.
func (r *SequenceRepo) Next(ctx context.Context, kind string, year int) (int64, error) {
	query := `
		INSERT INTO secuencias (tipo, anio, ultimo_valor)
		VALUES ($1, $2, 1)
		ON CONFLICT (tipo, anio)
		DO UPDATE SET ultimo_valor = secuencias.ultimo_valor + 1
		RETURNING ultimo_valor`
	var n int64
	if err := r.q.QueryRow(ctx, query, kind, year).Scan(&n); err != nil {
		return 0, translateErr("next consecutivo", err)
	}
	return n, nil
}
