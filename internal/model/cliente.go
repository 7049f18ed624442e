package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cliente is a store customer that may buy on credit.
// DeudaTotal is a read-path cache of the customer's outstanding balance; the
// authoritative value is always derived from the open credit sales and may
// differ from this column between reconciliation passes.
type Cliente struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Nombre        string          `gorm:"type:varchar(200);index;not null"`
	Telefono      *string         `gorm:"type:varchar(50)"`
	Direccion     *string         `gorm:"type:varchar(500)"`
	Email         *string         `gorm:"type:varchar(200)"`
	LimiteCredito decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DeudaTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notas         *string         `gorm:"type:varchar(1000)"`
	Activo        bool            `gorm:"not null;default:true;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Cliente) TableName() string { return "clientes" }

func (c *Cliente) BeforeCreate(_ *gorm.DB) error {
	asignarID(&c.ID)
	return nil
}

// TieneDeuda reports whether the cached balance is above the tolerance.
func (c *Cliente) TieneDeuda() bool {
	return c.DeudaTotal.GreaterThan(Tolerancia)
}

// PuedeFiar checks an additional credit amount against the credit limit,
// using deuda as the current balance. A zero limit means no limit.
func (c *Cliente) PuedeFiar(deuda, monto decimal.Decimal) bool {
	if !c.LimiteCredito.IsPositive() {
		return true
	}
	return deuda.Add(monto).LessThanOrEqual(c.LimiteCredito)
}
