package requests

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/agrocampo/bodega-api/internal/domain"
	"github.com/agrocampo/bodega-api/internal/domain/entity"
	domledger "github.com/agrocampo/bodega-api/internal/domain/ledger"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
	"github.com/agrocampo/bodega-api/pkg/logger"
)

// FulfillResult solicitud entregada y documento generado.
type FulfillResult struct {
	Request  *entity.Request
	Movement *entity.Movement
}

// FulfillUseCase convierte una solicitud APROBADA en un documento del libro
// y la cierra como ENTREGADA, todo dentro de una sola transacción:
//
//  1. bloquea la fila de la solicitud (FOR UPDATE) y verifica el estado;
//  2. para DESPACHO, bloquea cada producto y revalida el stock físico en
//     ese instante (la solicitud consume su propia reserva, el comprometido
//     no cuenta aquí);
//  3. obtiene el consecutivo del documento;
//  4. inserta el documento con una línea por línea de solicitud y marca la
//     solicitud como ENTREGADA enlazando el documento.
//
// Falla cualquiera de los pasos y no queda ni documento parcial ni cambio
// de estado. Ante un fallo transitorio de la BD (serialización, deadlock)
// se reintenta una única vez.
type FulfillUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewFulfillUseCase construye el transactor de entrega.
func NewFulfillUseCase(txRunner TxRunner, log *logger.Logger) *FulfillUseCase {
	return &FulfillUseCase{txRunner: txRunner, log: log}
}

// Fulfill entrega la solicitud. No es idempotente: una segunda llamada
// sobre la misma solicitud falla con InvalidTransition.
func (uc *FulfillUseCase) Fulfill(ctx context.Context, requestID, actorID string) (*FulfillResult, error) {
	result, err := uc.fulfillOnce(ctx, requestID, actorID)
	if err != nil && errors.Is(err, domain.ErrTransient) {
		uc.log.Warn().Str("solicitud", requestID).Msg("entrega abortada por error transitorio, reintentando")
		result, err = uc.fulfillOnce(ctx, requestID, actorID)
	}
	return result, err
}

func (uc *FulfillUseCase) fulfillOnce(ctx context.Context, requestID, actorID string) (*FulfillResult, error) {
	var result *FulfillResult

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		reqRepo repository.RequestRepository,
		seqRepo repository.SequenceRepository,
		productRepo repository.ProductRepository,
	) error {
		req, err := reqRepo.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.Status != entity.RequestAprobada {
			return &domain.InvalidTransitionError{
				RequestID: requestID,
				Current:   req.Status,
				Requested: entity.RequestEntregada,
			}
		}

		if req.Kind == entity.RequestDespacho {
			if err := uc.revalidateStock(ctx, movRepo, productRepo, req); err != nil {
				return err
			}
		}

		now := time.Now()
		mov := buildMovement(req, actorID, now)

		ordinal, err := seqRepo.Next(ctx, string(mov.Kind), now.Year())
		if err != nil {
			return err
		}
		mov.Code = entity.FormatCode(mov.Kind.Prefix(), now.Year(), ordinal)

		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}

		updated, err := reqRepo.UpdateStatus(ctx, requestID, entity.RequestAprobada, entity.RequestEntregada, actorID, mov.ID)
		if err != nil {
			return err
		}
		if !updated {
			// Con la fila bloqueada no debería pasar; si pasa, abortar todo.
			return &domain.InvalidTransitionError{
				RequestID: requestID,
				Current:   req.Status,
				Requested: entity.RequestEntregada,
			}
		}

		req.Status = entity.RequestEntregada
		req.MovementID = mov.ID
		req.ApproverID = actorID
		req.UpdatedAt = now
		result = &FulfillResult{Request: req, Movement: mov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// revalidateStock bloquea cada producto del despacho y comprueba que la
// existencia física alcanza la cantidad de cada línea en este instante.
func (uc *FulfillUseCase) revalidateStock(
	ctx context.Context,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	req *entity.Request,
) error {
	for _, line := range req.Lines {
		product, err := productRepo.GetForUpdate(ctx, line.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrUnknownProduct
		}
		contribs, err := movRepo.StockContributions(ctx, line.ProductID)
		if err != nil {
			return err
		}
		physical := domledger.PhysicalStock(contribs)
		if physical.LessThan(line.Quantity) {
			return &domain.InsufficientStockError{
				ProductID: line.ProductID,
				Required:  line.Quantity,
				Available: physical,
			}
		}
	}
	return nil
}

// buildMovement arma el documento a partir de la solicitud: SALIDA desde la
// bodega origen para DESPACHO, DEVOLUCION interna hacia la bodega destino
// para solicitudes de devolución (sin proveedor: reingresa al inventario).
func buildMovement(req *entity.Request, actorID string, now time.Time) *entity.Movement {
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		Status:    entity.MovementAprobado,
		Date:      now,
		RequestID: req.ID,
		CreatedBy: actorID,
		CreatedAt: now,
	}
	switch req.Kind {
	case entity.RequestDespacho:
		mov.Kind = entity.MovementSalida
		mov.SourceWarehouse = req.WarehouseID
	case entity.RequestDevolucion:
		mov.Kind = entity.MovementDevolucion
		mov.DestWarehouse = req.WarehouseID
	}
	for _, l := range req.Lines {
		mov.Lines = append(mov.Lines, entity.MovementLine{
			ID:         uuid.New().String(),
			MovementID: mov.ID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitID:     l.UnitID,
			LotID:      l.LotID,
			Notes:      l.Notes,
			CreatedAt:  now,
		})
	}
	return mov
}
