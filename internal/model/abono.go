package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Abono is a payment applied against a credit sale.
// Abonos are never modified; a wrong abono is deleted, which reverses it.
type Abono struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VentaID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioNombre string          `gorm:"type:varchar(100);not null"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Fecha         time.Time       `gorm:"index;not null"`
	Notas         *string         `gorm:"type:varchar(500)"`
	CreatedAt     time.Time
}

func (Abono) TableName() string { return "abonos" }

func (a *Abono) BeforeCreate(_ *gorm.DB) error {
	asignarID(&a.ID)
	if a.Fecha.IsZero() {
		a.Fecha = time.Now()
	}
	return nil
}
