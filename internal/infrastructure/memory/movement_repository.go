package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepository)(nil)

// MovementRepository libro de movimientos en memoria (append-only).
type MovementRepository struct {
	store *Store
}

// NewMovementRepository construye el repositorio.
func NewMovementRepository(store *Store) *MovementRepository {
	return &MovementRepository{store: store}
}

// Create agrega el documento al libro.
func (r *MovementRepository) Create(_ context.Context, mov *entity.Movement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *mov
	cp.Lines = append([]entity.MovementLine(nil), mov.Lines...)
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

// GetByID devuelve el documento o nil.
func (r *MovementRepository) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, m := range r.store.movements {
		if m.ID == id {
			cp := *m
			cp.Lines = append([]entity.MovementLine(nil), m.Lines...)
			return &cp, nil
		}
	}
	return nil, nil
}

// List devuelve los documentos más recientes primero.
func (r *MovementRepository) List(_ context.Context, limit int) ([]*entity.Movement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Movement
	for i := len(r.store.movements) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.store.movements[i]
		out = append(out, &cp)
	}
	return out, nil
}

// StockContributions agrega cantidades de líneas aprobadas por (tipo, con-proveedor).
func (r *MovementRepository) StockContributions(_ context.Context, productID string) ([]entity.StockContribution, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	type key struct {
		kind        entity.MovementKind
		hasSupplier bool
	}
	sums := map[key]decimal.Decimal{}
	var order []key
	for _, m := range r.store.movements {
		if m.Status != entity.MovementAprobado {
			continue
		}
		k := key{kind: m.Kind, hasSupplier: m.SupplierID != ""}
		for _, l := range m.Lines {
			if l.ProductID != productID {
				continue
			}
			if _, ok := sums[k]; !ok {
				order = append(order, k)
			}
			sums[k] = sums[k].Add(l.Quantity)
		}
	}

	out := make([]entity.StockContribution, 0, len(order))
	for _, k := range order {
		out = append(out, entity.StockContribution{Kind: k.kind, HasSupplier: k.hasSupplier, Total: sums[k]})
	}
	return out, nil
}

// RecentInboundCosts costos unitarios de las últimas líneas de INGRESO, de la
// más reciente a la más antigua.
func (r *MovementRepository) RecentInboundCosts(_ context.Context, productID string, limit int) ([]decimal.Decimal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []decimal.Decimal
	for i := len(r.store.movements) - 1; i >= 0 && len(out) < limit; i-- {
		m := r.store.movements[i]
		if m.Kind != entity.MovementIngreso || m.Status != entity.MovementAprobado {
			continue
		}
		for j := len(m.Lines) - 1; j >= 0 && len(out) < limit; j-- {
			l := m.Lines[j]
			if l.ProductID == productID && l.UnitCost != nil {
				out = append(out, *l.UnitCost)
			}
		}
	}
	return out, nil
}

// KardexByProduct líneas recientes del producto con cabecera.
func (r *MovementRepository) KardexByProduct(_ context.Context, productID string, limit int) ([]*repository.KardexEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*repository.KardexEntry
	for i := len(r.store.movements) - 1; i >= 0 && len(out) < limit; i-- {
		m := r.store.movements[i]
		if m.Status != entity.MovementAprobado {
			continue
		}
		for _, l := range m.Lines {
			if l.ProductID != productID {
				continue
			}
			out = append(out, kardexEntry(m, l))
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// ApplicationsByLot líneas de SALIDA aprobadas aplicadas al lote.
func (r *MovementRepository) ApplicationsByLot(_ context.Context, lotID string, limit int) ([]*repository.KardexEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*repository.KardexEntry
	for i := len(r.store.movements) - 1; i >= 0 && len(out) < limit; i-- {
		m := r.store.movements[i]
		if m.Kind != entity.MovementSalida || m.Status != entity.MovementAprobado {
			continue
		}
		for _, l := range m.Lines {
			if l.LotID != lotID {
				continue
			}
			out = append(out, kardexEntry(m, l))
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// CountToday documentos con fecha de hoy.
func (r *MovementRepository) CountToday(_ context.Context, now time.Time) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	y, m, d := now.Date()
	count := 0
	for _, mov := range r.store.movements {
		my, mm, md := mov.Date.Date()
		if my == y && mm == m && md == d {
			count++
		}
	}
	return count, nil
}

func kardexEntry(m *entity.Movement, l entity.MovementLine) *repository.KardexEntry {
	return &repository.KardexEntry{
		LineID:      l.ID,
		MovementID:  m.ID,
		Code:        m.Code,
		Kind:        m.Kind,
		HasSupplier: m.SupplierID != "",
		Quantity:    l.Quantity,
		UnitID:      l.UnitID,
		LotID:       l.LotID,
		ProductID:   l.ProductID,
		SourceWh:    m.SourceWarehouse,
		DestWh:      m.DestWarehouse,
		Date:        m.Date,
	}
}
