package catalog

import (
	"context"
	"time"

	"github.com/agrocampo/bodega-api/internal/application/dto"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

// DashboardUseCase indicadores del panel: solicitudes pendientes y
// documentos registrados hoy.
type DashboardUseCase struct {
	movRepo repository.MovementRepository
	reqRepo repository.RequestRepository
	now     func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(movRepo repository.MovementRepository, reqRepo repository.RequestRepository) *DashboardUseCase {
	return &DashboardUseCase{movRepo: movRepo, reqRepo: reqRepo, now: time.Now}
}

// Get devuelve los indicadores.
func (uc *DashboardUseCase) Get(ctx context.Context) (*dto.DashboardResponse, error) {
	pending, err := uc.reqRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	today, err := uc.movRepo.CountToday(ctx, uc.now())
	if err != nil {
		return nil, err
	}
	return &dto.DashboardResponse{
		PendingRequests: pending,
		MovementsToday:  today,
	}, nil
}
