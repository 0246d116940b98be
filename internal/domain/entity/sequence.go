package entity

import "fmt"

// SequenceKinds válidos: los prefijos de documento más el de solicitudes.
const SequenceSolicitud = "SOL"

// SequenceCounter contador de consecutivos por (tipo, año).
// Es el único contador mutable compartido del sistema; el incremento debe ser
// atómico (ver infrastructure/postgres y infrastructure/memory).
type SequenceCounter struct {
	Kind      string
	Year      int
	LastValue int64
}

// FormatCode arma el consecutivo humano "{PREFIJO}-{AÑO}-{NNNN}".
func FormatCode(prefix string, year int, ordinal int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, ordinal)
}
