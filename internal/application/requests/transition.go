package requests

import (
	"context"

	"github.com/agrocampo/bodega-api/internal/domain"
	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

// TransitionRequestUseCase aplica cambios de estado directos sobre una
// solicitud (aprobar, rechazar). ENTREGADA queda fuera: solo el transactor
// de entrega la alcanza.
type TransitionRequestUseCase struct {
	reqRepo repository.RequestRepository
}

// NewTransitionRequestUseCase construye el caso de uso.
func NewTransitionRequestUseCase(reqRepo repository.RequestRepository) *TransitionRequestUseCase {
	return &TransitionRequestUseCase{reqRepo: reqRepo}
}

// Transition cambia el estado si la máquina de estados lo permite. La
// escritura usa guarda optimista sobre el estado actual: si otra transición
// concurrente ganó, falla con InvalidTransition en vez de pisar el cambio.
func (uc *TransitionRequestUseCase) Transition(ctx context.Context, requestID string, newStatus entity.RequestStatus, actorID string) (*entity.Request, error) {
	if !newStatus.Valid() {
		return nil, domain.ErrInvalidInput
	}

	req, err := uc.reqRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}

	if newStatus == entity.RequestEntregada || !req.Status.CanTransition(newStatus) {
		return nil, &domain.InvalidTransitionError{
			RequestID: requestID,
			Current:   req.Status,
			Requested: newStatus,
		}
	}

	approver := ""
	if newStatus == entity.RequestAprobada || newStatus == entity.RequestRechazada {
		approver = actorID
	}

	updated, err := uc.reqRepo.UpdateStatus(ctx, requestID, req.Status, newStatus, approver, "")
	if err != nil {
		return nil, err
	}
	if !updated {
		// Otra transición cambió el estado entre la lectura y la escritura.
		current, err := uc.reqRepo.GetByID(ctx, requestID)
		if err != nil {
			return nil, err
		}
		cur := req.Status
		if current != nil {
			cur = current.Status
		}
		return nil, &domain.InvalidTransitionError{RequestID: requestID, Current: cur, Requested: newStatus}
	}
	return uc.reqRepo.GetByID(ctx, requestID)
}
