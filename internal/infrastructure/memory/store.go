// Package memory implementa los puertos de persistencia sobre estructuras en
// memoria. Se usa en los tests de la capa de aplicación y como backend para
// demos locales sin PostgreSQL. No ofrece aislamiento transaccional real: el
// TxRunner ejecuta el callback directamente.
package memory

import (
	"context"
	"sync"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

// Store almacén en memoria compartido por todos los repositorios.
type Store struct {
	mu sync.Mutex

	products   map[string]*entity.Product
	units      map[string]*entity.Unit
	categories map[string]*entity.Category
	suppliers  map[string]*entity.Supplier
	warehouses map[string]*entity.Warehouse
	farms      map[string]*entity.Farm
	lots       map[string]*entity.Lot
	users      map[string]*entity.User

	movements []*entity.Movement
	requests  map[string]*entity.Request
	reqOrder  []string
	sequences map[string]int64 // "TIPO|AÑO" → último ordinal
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:   map[string]*entity.Product{},
		units:      map[string]*entity.Unit{},
		categories: map[string]*entity.Category{},
		suppliers:  map[string]*entity.Supplier{},
		warehouses: map[string]*entity.Warehouse{},
		farms:      map[string]*entity.Farm{},
		lots:       map[string]*entity.Lot{},
		users:      map[string]*entity.User{},
		requests:   map[string]*entity.Request{},
		sequences:  map[string]int64{},
	}
}

// Seed helpers (solo escritura directa, para tests y demos).

func (s *Store) AddProduct(p *entity.Product)    { s.mu.Lock(); defer s.mu.Unlock(); s.products[p.ID] = p }
func (s *Store) AddUnit(u *entity.Unit)          { s.mu.Lock(); defer s.mu.Unlock(); s.units[u.ID] = u }
func (s *Store) AddCategory(c *entity.Category)  { s.mu.Lock(); defer s.mu.Unlock(); s.categories[c.ID] = c }
func (s *Store) AddSupplier(p *entity.Supplier)  { s.mu.Lock(); defer s.mu.Unlock(); s.suppliers[p.ID] = p }
func (s *Store) AddWarehouse(w *entity.Warehouse) { s.mu.Lock(); defer s.mu.Unlock(); s.warehouses[w.ID] = w }
func (s *Store) AddFarm(f *entity.Farm)          { s.mu.Lock(); defer s.mu.Unlock(); s.farms[f.ID] = f }
func (s *Store) AddLot(l *entity.Lot)            { s.mu.Lock(); defer s.mu.Unlock(); s.lots[l.ID] = l }
func (s *Store) AddUser(u *entity.User)          { s.mu.Lock(); defer s.mu.Unlock(); s.users[u.ID] = u }

// TxRunner implementa ledger.TxRunner y requests.TxRunner sin transacciones
// reales: ejecuta el callback con los repositorios del almacén.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos de movimiento y secuencia (forma ledger.TxRunner).
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	return fn(NewMovementRepository(r.store), NewSequenceRepository(r.store))
}

// RequestTxRunner variante con los repos del ciclo de solicitudes
// (forma requests.TxRunner).
type RequestTxRunner struct {
	store *Store
}

// NewRequestTxRunner construye el runner de solicitudes.
func NewRequestTxRunner(store *Store) *RequestTxRunner {
	return &RequestTxRunner{store: store}
}

// Run ejecuta fn con los cuatro repos atados al almacén.
func (r *RequestTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	reqRepo repository.RequestRepository,
	seqRepo repository.SequenceRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(
		NewMovementRepository(r.store),
		NewRequestRepository(r.store),
		NewSequenceRepository(r.store),
		NewProductRepository(r.store),
	)
}
