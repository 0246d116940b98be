package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de documento de movimiento de inventario.
type MovementKind string

// Tipos de documento. DEVOLUCION cambia de signo según tenga proveedor o no
// (ver ledger.StockSign).
const (
	MovementIngreso       MovementKind = "INGRESO"
	MovementSalida        MovementKind = "SALIDA"
	MovementAjuste        MovementKind = "AJUSTE"
	MovementDevolucion    MovementKind = "DEVOLUCION"
	MovementTransferencia MovementKind = "TRANSFERENCIA"
)

// Valid reporta si el tipo es uno de los cinco conocidos.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementIngreso, MovementSalida, MovementAjuste, MovementDevolucion, MovementTransferencia:
		return true
	}
	return false
}

// Prefix devuelve el prefijo del consecutivo para este tipo de documento.
func (k MovementKind) Prefix() string {
	switch k {
	case MovementIngreso:
		return "ING"
	case MovementSalida:
		return "SAL"
	case MovementAjuste:
		return "AJU"
	case MovementDevolucion:
		return "DEV"
	case MovementTransferencia:
		return "TRA"
	}
	return "DOC"
}

// MovementStatus estado del documento.
type MovementStatus string

const (
	MovementBorrador MovementStatus = "BORRADOR"
	MovementAprobado MovementStatus = "APROBADO"
	MovementAnulado  MovementStatus = "ANULADO"
)

// Movement representa un documento de movimiento de inventario (cabecera).
// Solo los documentos APROBADO cuentan para la existencia física; un documento
// aprobado es inmutable salvo la transición a ANULADO.
type Movement struct {
	ID              string
	Code            string // consecutivo humano, ej. "SAL-2026-0001"
	Kind            MovementKind
	Status          MovementStatus
	Date            time.Time
	SourceWarehouse string // vacío si no aplica
	DestWarehouse   string
	SupplierID      string // en DEVOLUCION decide el signo
	RequestID       string // solicitud que originó el documento, si la hay
	Observation     string
	CreatedBy       string
	CreatedAt       time.Time
	Lines           []MovementLine
}

// MovementLine línea de producto dentro de un documento.
// Quantity se guarda como magnitud positiva, salvo en AJUSTE donde el llamador
// puede pasar una cantidad negativa para un ajuste a la baja.
type MovementLine struct {
	ID         string
	MovementID string
	ProductID  string
	Quantity   decimal.Decimal
	UnitID     string
	LotID      string // lote/parcela opcional para trazabilidad
	UnitCost   *decimal.Decimal
	Notes      string
	CreatedAt  time.Time
}

// StockContribution agregado por (tipo, con-proveedor) de las líneas aprobadas
// de un producto. La capa de persistencia lo devuelve crudo y el dominio aplica
// la tabla de signos (ledger.StockSign) en un único lugar.
type StockContribution struct {
	Kind        MovementKind
	HasSupplier bool
	Total       decimal.Decimal
}
