package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeVenta      = "venta"
	MovementTypeRetiro     = "retiro"
	MovementTypeReposicion = "reposicion"
	MovementTypeAjuste     = "ajuste" // cambio directo de stock desde el catálogo
)

// StockMovement registro append-only de cada cambio de stock.
// Quantity es negativa en las salidas y positiva en las reposiciones; en un ajuste lleva el signo del cambio.
type StockMovement struct {
	ID            int64
	ProductID     int64
	Type          string
	Quantity      int
	StockAnterior int
	StockNuevo    int
	ReferenceID   int64 // id de la venta o del retiro; 0 en reposiciones y ajustes
	CreatedAt     time.Time
}
