package requests

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appledger "github.com/agrocampo/bodega-api/internal/application/ledger"
	"github.com/agrocampo/bodega-api/internal/domain"
	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

// RequestLineInput línea solicitada.
type RequestLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitID    string
	LotID     string
	Notes     string
}

// CreateRequestInput entrada para crear una solicitud.
// Para DEVOLUCION, OriginRequestID apunta al DESPACHO contra el que se
// devuelve (opcional pero recomendado: habilita el control de duplicados).
type CreateRequestInput struct {
	Kind            entity.RequestKind
	RequesterID     string
	WarehouseID     string
	Date            time.Time
	OriginRequestID string
	Lines           []RequestLineInput
}

// CreateRequestUseCase crea solicitudes en estado PENDIENTE.
//
// La validación de disponibilidad lee stock físico y comprometido sin
// bloquear las filas del libro: dos solicitudes concurrentes sobre el mismo
// margen estrecho pueden admitirse ambas (sobrecompromiso optimista). La
// entrega revalida el stock físico bajo bloqueo de fila y es la barrera
// definitiva; ver DESIGN.md.
type CreateRequestUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	catalogRepo  repository.CatalogRepository
	reqRepo      repository.RequestRepository
	availability *appledger.AvailabilityCalculator
}

// NewCreateRequestUseCase construye el caso de uso.
func NewCreateRequestUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	catalogRepo repository.CatalogRepository,
	reqRepo repository.RequestRepository,
	availability *appledger.AvailabilityCalculator,
) *CreateRequestUseCase {
	return &CreateRequestUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		catalogRepo:  catalogRepo,
		reqRepo:      reqRepo,
		availability: availability,
	}
}

// Create valida la solicitud, le asigna consecutivo SOL-AÑO-NNNN y la
// persiste en PENDIENTE con sus líneas, todo en una transacción.
func (uc *CreateRequestUseCase) Create(ctx context.Context, input CreateRequestInput) (*entity.Request, error) {
	if !input.Kind.Valid() || input.RequesterID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	if err := uc.validateLines(ctx, input); err != nil {
		return nil, err
	}

	if input.Kind == entity.RequestDevolucion && input.OriginRequestID != "" {
		if err := uc.validateReturn(ctx, input.OriginRequestID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	req := &entity.Request{
		ID:              uuid.New().String(),
		Kind:            input.Kind,
		Status:          entity.RequestPendiente,
		RequesterID:     input.RequesterID,
		WarehouseID:     input.WarehouseID,
		Date:            date,
		OriginRequestID: input.OriginRequestID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, l := range input.Lines {
		req.Lines = append(req.Lines, entity.RequestLine{
			ID:        uuid.New().String(),
			RequestID: req.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitID:    l.UnitID,
			LotID:     l.LotID,
			Notes:     l.Notes,
		})
	}

	err := uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		reqRepo repository.RequestRepository,
		seqRepo repository.SequenceRepository,
		_ repository.ProductRepository,
	) error {
		ordinal, err := seqRepo.Next(ctx, entity.SequenceSolicitud, date.Year())
		if err != nil {
			return err
		}
		req.Code = entity.FormatCode(entity.SequenceSolicitud, date.Year(), ordinal)
		return reqRepo.Create(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (uc *CreateRequestUseCase) validateLines(ctx context.Context, input CreateRequestInput) error {
	for _, l := range input.Lines {
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidQuantity
		}
		product, err := uc.productRepo.GetByID(ctx, l.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrUnknownProduct
		}
		if l.UnitID != "" {
			if unit, err := uc.catalogRepo.GetUnit(ctx, l.UnitID); err != nil || unit == nil {
				return domain.ErrInvalidInput
			}
		}

		if input.Kind == entity.RequestDespacho {
			// Se valida contra el disponible sin truncar: un faltante real
			// debe detectarse aunque el valor ya sea negativo.
			avail, err := uc.availability.Get(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if l.Quantity.GreaterThan(avail.Available) {
				return &domain.InsufficientStockError{
					ProductID: l.ProductID,
					Required:  l.Quantity,
					Available: avail.Available,
				}
			}
		}
	}
	return nil
}

// validateReturn aplica la regla de una sola devolución activa por despacho
// origen.
func (uc *CreateRequestUseCase) validateReturn(ctx context.Context, originID string) error {
	origin, err := uc.reqRepo.GetByID(ctx, originID)
	if err != nil {
		return err
	}
	if origin == nil {
		return domain.ErrNotFound
	}
	if origin.Kind != entity.RequestDespacho {
		return domain.ErrInvalidInput
	}
	existing, err := uc.reqRepo.FindActiveReturnByOrigin(ctx, originID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &domain.DuplicateReturnError{
			OriginRequestID:    originID,
			ConflictingRequest: existing.ID,
			ConflictingStatus:  existing.Status,
		}
	}
	return nil
}
