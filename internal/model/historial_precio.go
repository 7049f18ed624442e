package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HistorialPrecio records a change to a product's supplier or sale price.
// Rows are append-only.
type HistorialPrecio struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostoAntes   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoDespues decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VentaAntes   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VentaDespues decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time       `gorm:"index"`
}

func (HistorialPrecio) TableName() string { return "historial_precios" }

func (h *HistorialPrecio) BeforeCreate(_ *gorm.DB) error {
	asignarID(&h.ID)
	return nil
}

// CambioPrecio returns the history row for p moving to the given prices, or
// nil when neither price changes.
func CambioPrecio(p *Producto, costo, venta decimal.Decimal) *HistorialPrecio {
	if p.PrecioProveedor.Equal(costo) && p.PrecioVenta.Equal(venta) {
		return nil
	}
	return &HistorialPrecio{
		ProductoID:   p.ID,
		CostoAntes:   p.PrecioProveedor,
		CostoDespues: costo,
		VentaAntes:   p.PrecioVenta,
		VentaDespues: venta,
	}
}
