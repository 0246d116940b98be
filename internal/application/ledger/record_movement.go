package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrocampo/bodega-api/internal/domain"
	"github.com/agrocampo/bodega-api/internal/domain/entity"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
	"github.com/agrocampo/bodega-api/pkg/logger"
)

// MovementLineInput línea de entrada para registrar un documento.
type MovementLineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitID    string
	LotID     string
	UnitCost  *decimal.Decimal
	Notes     string
}

// MovementInput entrada para registrar un documento de movimiento.
// SALIDA exige bodega origen; INGRESO y DEVOLUCION interna, bodega destino;
// TRANSFERENCIA, ambas y distintas. En DEVOLUCION, SupplierID no vacío
// significa que la mercadería sale hacia el proveedor.
type MovementInput struct {
	Kind            entity.MovementKind
	Date            time.Time
	SourceWarehouse string
	DestWarehouse   string
	SupplierID      string
	RequestID       string
	Observation     string
	ActorID         string
	Lines           []MovementLineInput
}

// RecordMovementUseCase registra documentos de inventario de forma
// transaccional: consecutivo y documento se confirman juntos o no se
// confirma nada. Tras un INGRESO dispara el recálculo del precio de
// referencia de cada producto afectado (no fatal).
type RecordMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	catalogRepo repository.CatalogRepository
	prices      PriceRefresher
	log         *logger.Logger
}

// NewRecordMovementUseCase construye el caso de uso.
func NewRecordMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	catalogRepo repository.CatalogRepository,
	prices PriceRefresher,
	log *logger.Logger,
) *RecordMovementUseCase {
	return &RecordMovementUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		catalogRepo: catalogRepo,
		prices:      prices,
		log:         log,
	}
}

// Record valida y persiste un documento APROBADO con sus líneas.
func (uc *RecordMovementUseCase) Record(ctx context.Context, input MovementInput) (*entity.Movement, error) {
	if err := uc.validate(ctx, &input); err != nil {
		return nil, err
	}

	now := time.Now()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	mov := &entity.Movement{
		ID:              uuid.New().String(),
		Kind:            input.Kind,
		Status:          entity.MovementAprobado,
		Date:            date,
		SourceWarehouse: input.SourceWarehouse,
		DestWarehouse:   input.DestWarehouse,
		SupplierID:      input.SupplierID,
		RequestID:       input.RequestID,
		Observation:     input.Observation,
		CreatedBy:       input.ActorID,
		CreatedAt:       now,
	}
	for _, l := range input.Lines {
		mov.Lines = append(mov.Lines, entity.MovementLine{
			ID:         uuid.New().String(),
			MovementID: mov.ID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitID:     l.UnitID,
			LotID:      l.LotID,
			UnitCost:   l.UnitCost,
			Notes:      l.Notes,
			CreatedAt:  now,
		})
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		seqRepo repository.SequenceRepository,
	) error {
		ordinal, err := seqRepo.Next(ctx, string(input.Kind), date.Year())
		if err != nil {
			return err
		}
		mov.Code = entity.FormatCode(input.Kind.Prefix(), date.Year(), ordinal)
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}

	if input.Kind == entity.MovementIngreso && uc.prices != nil {
		uc.refreshPrices(ctx, mov)
	}
	return mov, nil
}

// refreshPrices recalcula el precio de referencia de cada producto del
// ingreso. Los fallos se registran y se descartan: el documento ya está
// confirmado.
func (uc *RecordMovementUseCase) refreshPrices(ctx context.Context, mov *entity.Movement) {
	seen := make(map[string]bool, len(mov.Lines))
	for _, l := range mov.Lines {
		if seen[l.ProductID] {
			continue
		}
		seen[l.ProductID] = true
		if err := uc.prices.Refresh(ctx, l.ProductID); err != nil {
			uc.log.Warn().Err(err).
				Str("producto", l.ProductID).
				Str("documento", mov.Code).
				Msg("no se pudo actualizar precio de referencia")
		}
	}
}

func (uc *RecordMovementUseCase) validate(ctx context.Context, input *MovementInput) error {
	if !input.Kind.Valid() || len(input.Lines) == 0 {
		return domain.ErrInvalidInput
	}

	switch input.Kind {
	case entity.MovementIngreso:
		if input.DestWarehouse == "" {
			return domain.ErrInvalidInput
		}
	case entity.MovementSalida:
		if input.SourceWarehouse == "" {
			return domain.ErrInvalidInput
		}
	case entity.MovementTransferencia:
		if input.SourceWarehouse == "" || input.DestWarehouse == "" ||
			input.SourceWarehouse == input.DestWarehouse {
			return domain.ErrInvalidInput
		}
	case entity.MovementDevolucion:
		if input.SourceWarehouse == "" && input.DestWarehouse == "" {
			return domain.ErrInvalidInput
		}
	case entity.MovementAjuste:
		// sin restricción de bodega
	}

	if input.SupplierID != "" {
		if sup, err := uc.catalogRepo.GetSupplier(ctx, input.SupplierID); err != nil || sup == nil {
			return domain.ErrNotFound
		}
	}

	for _, l := range input.Lines {
		// Convención heredada: AJUSTE admite cantidad negativa (ajuste a la
		// baja pre-negado); los demás tipos exigen cantidad positiva.
		if input.Kind == entity.MovementAjuste {
			if l.Quantity.IsZero() {
				return domain.ErrInvalidQuantity
			}
		} else if !l.Quantity.GreaterThan(decimal.Zero) {
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
	}
	return nil
}
