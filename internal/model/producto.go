package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Producto is a catalog entry. Stock is fractional so products sold by
// weight or volume fit the same column.
type Producto struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Nombre          string          `gorm:"type:varchar(200);index;not null"`
	CodigoBarras    *string         `gorm:"type:varchar(100);uniqueIndex"`
	PrecioProveedor decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PrecioVenta     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CantidadStock   decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	StockMinimo     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	UnidadMedida    string          `gorm:"type:varchar(50);not null;default:'unidad'"`
	Categoria       *string         `gorm:"type:varchar(100)"`
	Proveedor       *string         `gorm:"type:varchar(200)"`
	Descripcion     *string         `gorm:"type:varchar(1000)"`
	Activo          bool            `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Producto) TableName() string { return "productos" }

func (p *Producto) BeforeCreate(_ *gorm.DB) error {
	asignarID(&p.ID)
	return nil
}

// BajoStock reports whether stock reached the configured minimum.
func (p *Producto) BajoStock() bool {
	return p.CantidadStock.LessThanOrEqual(p.StockMinimo)
}

// MargenPct is the markup over the supplier price, in percent.
func (p *Producto) MargenPct() decimal.Decimal {
	if p.PrecioProveedor.IsZero() {
		return decimal.Zero
	}
	return p.PrecioVenta.Sub(p.PrecioProveedor).Div(p.PrecioProveedor).Mul(decimal.NewFromInt(100)).Round(2)
}
