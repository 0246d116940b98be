package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrocampo/bodega-api/internal/application/ledger"
	"github.com/agrocampo/bodega-api/internal/application/requests"
	"github.com/agrocampo/bodega-api/internal/domain/repository"
)

var (
	_ ledger.TxRunner   = (*TxRunner)(nil)
	_ requests.TxRunner = (*RequestTxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con los
// repos del libro de movimientos (forma ledger.TxRunner).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewMovementRepository(tx), NewSequenceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translateErr("commit transaction", err)
	}
	return nil
}

// RequestTxRunner variante con los repos del ciclo de vida de solicitudes
// (forma requests.TxRunner). El transactor de entrega necesita que el
// bloqueo de fila, el consecutivo y el documento vivan en la misma tx.
type RequestTxRunner struct {
	pool *pgxpool.Pool
}

// NewRequestTxRunner construye el runner de solicitudes.
func NewRequestTxRunner(pool *pgxpool.Pool) *RequestTxRunner {
	return &RequestTxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los cuatro repos atados a la tx
// y hace Commit o Rollback.
func (r *RequestTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	reqRepo repository.RequestRepository,
	seqRepo repository.SequenceRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = fn(
		NewMovementRepository(tx),
		NewRequestRepository(tx),
		NewSequenceRepository(tx),
		NewProductRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translateErr("commit transaction", err)
	}
	return nil
}
