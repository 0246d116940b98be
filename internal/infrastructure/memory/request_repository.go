package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepository)(nil)

// RequestRepository solicitudes en memoria.
type RequestRepository struct {
	store *Store
}

// NewRequestRepository construye el repositorio.
func NewRequestRepository(store *Store) *RequestRepository {
	return &RequestRepository{store: store}
}

func cloneRequest(r *entity.Request) *entity.Request {
	cp := *r
	cp.Lines = append([]entity.RequestLine(nil), r.Lines...)
	return &cp
}

// Create persiste la solicitud.
func (r *RequestRepository) Create(_ context.Context, req *entity.Request) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.requests[req.ID] = cloneRequest(req)
	r.store.reqOrder = append(r.store.reqOrder, req.ID)
	return nil
}

// GetByID devuelve la solicitud o nil.
func (r *RequestRepository) GetByID(_ context.Context, id string) (*entity.Request, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if req, ok := r.store.requests[id]; ok {
		return cloneRequest(req), nil
	}
	return nil, nil
}

// GetForUpdate en memoria no hay bloqueo de fila; equivale a GetByID.
func (r *RequestRepository) GetForUpdate(ctx context.Context, id string) (*entity.Request, error) {
	return r.GetByID(ctx, id)
}

// List filtra por estado y solicitante, más recientes primero.
func (r *RequestRepository) List(_ context.Context, filter repository.RequestFilter) ([]*entity.Request, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	var out []*entity.Request
	for i := len(r.store.reqOrder) - 1; i >= 0 && len(out) < limit; i-- {
		req := r.store.requests[r.store.reqOrder[i]]
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.RequesterID != "" && req.RequesterID != filter.RequesterID {
			continue
		}
		out = append(out, cloneRequest(req))
	}
	return out, nil
}

// UpdateStatus guarda optimista: escribe solo si el estado actual es from.
func (r *RequestRepository) UpdateStatus(_ context.Context, id string, from, to entity.RequestStatus, approverID, movementID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	req, ok := r.store.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	if approverID != "" {
		req.ApproverID = approverID
	}
	if movementID != "" {
		req.MovementID = movementID
	}
	return true, nil
}

// SumOpenDispatchQuantity stock comprometido del producto.
func (r *RequestRepository) SumOpenDispatchQuantity(_ context.Context, productID string) (decimal.Decimal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	total := decimal.Zero
	for _, req := range r.store.requests {
		if req.Kind != entity.RequestDespacho || !req.Status.Open() {
			continue
		}
		for _, l := range req.Lines {
			if l.ProductID == productID {
				total = total.Add(l.Quantity)
			}
		}
	}
	return total, nil
}

// FindActiveReturnByOrigin devolución no rechazada contra el despacho origen.
func (r *RequestRepository) FindActiveReturnByOrigin(_ context.Context, originRequestID string) (*entity.Request, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, req := range r.store.requests {
		if req.Kind == entity.RequestDevolucion &&
			req.OriginRequestID == originRequestID &&
			req.Status != entity.RequestRechazada {
			return cloneRequest(req), nil
		}
	}
	return nil, nil
}

// CountPending solicitudes pendientes.
func (r *RequestRepository) CountPending(_ context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	count := 0
	for _, req := range r.store.requests {
		if req.Status == entity.RequestPendiente {
			count++
		}
	}
	return count, nil
}
