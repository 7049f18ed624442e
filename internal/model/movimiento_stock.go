package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MovimientoVenta       = "venta"
	MovimientoEliminacion = "eliminacion_venta"
	MovimientoAjuste      = "ajuste_manual"
)

// MovimientoStock records every change to a product's stock.
// Cantidad is signed: positive adds stock, negative removes it.
type MovimientoStock struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo          string          `gorm:"type:varchar(30);not null"`
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockAnterior decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockNuevo    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	ReferenciaID  *uuid.UUID      `gorm:"type:uuid;index"` // venta_id when the move comes from a sale
	CreatedAt     time.Time       `gorm:"index"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }

func (m *MovimientoStock) BeforeCreate(_ *gorm.DB) error {
	asignarID(&m.ID)
	return nil
}
