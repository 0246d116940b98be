package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
	"github.com/agrocampo/bodega-api/pkg/normalize"
)

var (
	_ repository.ProductRepository  = (*ProductRepository)(nil)
	_ repository.CatalogRepository  = (*CatalogRepository)(nil)
	_ repository.SequenceRepository = (*SequenceRepository)(nil)
	_ repository.UserRepository     = (*UserRepository)(nil)
)

// ProductRepository productos en memoria.
type ProductRepository struct {
	store *Store
}

// NewProductRepository construye el repositorio.
func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

// GetByID devuelve el producto o nil.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

// GetForUpdate en memoria no hay bloqueo de fila; equivale a GetByID.
func (r *ProductRepository) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// List devuelve todos los productos ordenados por nombre.
func (r *ProductRepository) List(_ context.Context) ([]*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Search productos activos por nombre o código, sin distinguir mayúsculas ni
// tildes.
func (r *ProductRepository) Search(ctx context.Context, term string, limit int) ([]*entity.Product, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*entity.Product
	for _, p := range all {
		if !p.Active {
			continue
		}
		if term != "" && !normalize.Matches(p.Name, term) && !normalize.Matches(p.Code, term) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// UpdateReferencePrice escribe el precio derivado.
func (r *ProductRepository) UpdateReferencePrice(_ context.Context, productID string, price decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[productID]
	if !ok {
		return fmt.Errorf("producto %s no existe", productID)
	}
	p.ReferencePrice = &price
	return nil
}

// CatalogRepository catálogo en memoria.
type CatalogRepository struct {
	store *Store
}

// NewCatalogRepository construye el repositorio.
func NewCatalogRepository(store *Store) *CatalogRepository {
	return &CatalogRepository{store: store}
}

func (r *CatalogRepository) GetUnit(_ context.Context, id string) (*entity.Unit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.units[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *CatalogRepository) GetWarehouse(_ context.Context, id string) (*entity.Warehouse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if w, ok := r.store.warehouses[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, nil
}

func (r *CatalogRepository) GetSupplier(_ context.Context, id string) (*entity.Supplier, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if s, ok := r.store.suppliers[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *CatalogRepository) GetLot(_ context.Context, id string) (*entity.Lot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if l, ok := r.store.lots[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r *CatalogRepository) ListWarehouses(_ context.Context) ([]*entity.Warehouse, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.Warehouse, 0, len(r.store.warehouses))
	for _, w := range r.store.warehouses {
		cp := *w
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepository) ListSuppliers(_ context.Context) ([]*entity.Supplier, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.Supplier, 0, len(r.store.suppliers))
	for _, s := range r.store.suppliers {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepository) ListCategories(_ context.Context) ([]*entity.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepository) ListFarmsWithOpenLots(_ context.Context) ([]*repository.FarmWithLots, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	byFarm := map[string][]entity.Lot{}
	for _, l := range r.store.lots {
		if l.Status == entity.LotOpen {
			byFarm[l.FarmID] = append(byFarm[l.FarmID], *l)
		}
	}
	out := make([]*repository.FarmWithLots, 0, len(r.store.farms))
	for _, f := range r.store.farms {
		lots := byFarm[f.ID]
		sort.Slice(lots, func(i, j int) bool { return lots[i].Code < lots[j].Code })
		out = append(out, &repository.FarmWithLots{Farm: *f, Lots: lots})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Farm.Name < out[j].Farm.Name })
	return out, nil
}

// SequenceRepository contador de consecutivos en memoria. El mutex del
// almacén garantiza que dos llamadas concurrentes para el mismo (tipo, año)
// nunca reciben el mismo ordinal.
type SequenceRepository struct {
	store *Store
}

// NewSequenceRepository construye el repositorio.
func NewSequenceRepository(store *Store) *SequenceRepository {
	return &SequenceRepository{store: store}
}

// Next incrementa atómicamente el contador de (tipo, año), creándolo en 1.
func (r *SequenceRepository) Next(_ context.Context, kind string, year int) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := fmt.Sprintf("%s|%d", kind, year)
	r.store.sequences[key]++
	return r.store.sequences[key], nil
}

// UserRepository usuarios en memoria.
type UserRepository struct {
	store *Store
}

// NewUserRepository construye el repositorio.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}
