package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agrocampo/bodega-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isTransient verifica si el error es un fallo de serialización (40001) o
// deadlock (40P01): la transacción puede reintentarse tal cual.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// translateErr marca los errores reintentables con domain.ErrTransient para
// que la capa de aplicación decida el reintento sin conocer códigos pg.
func translateErr(op string, err error) error {
	if isTransient(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrTransient, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
