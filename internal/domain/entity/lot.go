package entity

import "time"

// Estados de lote (área de cultivo).
const (
	LotOpen   = "ABIERTO"
	LotClosed = "CERRADO"
)

// Farm finca a la que pertenecen los lotes.
type Farm struct {
	ID   string
	Name string
}

// Lot lote/parcela de cultivo; las líneas de movimiento y solicitud lo
// referencian para trazabilidad de aplicaciones.
type Lot struct {
	ID           string
	Code         string
	FarmID       string
	CropName     string
	AreaManzanas *float64
	Status       string // ABIERTO, CERRADO
	CreatedAt    time.Time
}
