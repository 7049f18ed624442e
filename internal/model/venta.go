package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemVenta is one line of a sale. The ledger treats the list as opaque; only
// the subtotals are read, once, to fix the sale total at creation.
type ItemVenta struct {
	ProductoID     *uuid.UUID      `json:"producto_id,omitempty"`
	Nombre         string          `json:"nombre"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DescontarStock bool            `json:"descontar_stock"`
}

// ItemsVenta is stored as a single JSON column.
type ItemsVenta []ItemVenta

func (i ItemsVenta) Value() (driver.Value, error) {
	if i == nil {
		return "[]", nil
	}
	b, err := json.Marshal(i)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (i *ItemsVenta) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*i = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("items venta: tipo no soportado %T", src)
	}
	return json.Unmarshal(raw, i)
}

// Total sums the line subtotals.
func (i ItemsVenta) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range i {
		total = total.Add(it.Subtotal)
	}
	return total
}

// ConStock returns the lines that move inventory.
func (i ItemsVenta) ConStock() []ItemVenta {
	var out []ItemVenta
	for _, it := range i {
		if it.DescontarStock && it.ProductoID != nil {
			out = append(out, it)
		}
	}
	return out
}

// Venta is a sale, paid in cash or on credit (es_fiado).
// Abonado and Resto are persisted copies of values derived from the abonos
// table; only AplicarAbonado writes them.
type Venta struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Fecha               time.Time       `gorm:"index;not null"`
	UsuarioID           uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioNombre       string          `gorm:"type:varchar(100);not null"`
	ClienteID           *uuid.UUID      `gorm:"type:uuid;index"`
	ClienteNombre       *string         `gorm:"type:varchar(200)"`
	Productos           ItemsVenta      `gorm:"type:jsonb;not null"`
	Total               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EsFiado             bool            `gorm:"not null;default:false;index"`
	Abonado             decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Resto               decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PagadoCompletamente bool            `gorm:"not null;default:false;index"`
	FechaPagoCompleto   *time.Time
	Notas               *string `gorm:"type:varchar(1000)"`
	MetodoPago          *string `gorm:"type:varchar(50)"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Abonos []Abono `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
}

func (Venta) TableName() string { return "ventas" }

func (v *Venta) BeforeCreate(_ *gorm.DB) error {
	asignarID(&v.ID)
	if v.Fecha.IsZero() {
		v.Fecha = time.Now()
	}
	return nil
}

// Pendiente reports whether the sale is an open credit sale.
func (v *Venta) Pendiente() bool {
	return v.EsFiado && !v.PagadoCompletamente
}

// AplicarAbonado sets the derived payment fields from the ledger sum.
// A sale is paid once the remainder is within Tolerancia; the completion
// timestamp is kept while paid and cleared when the sale reopens.
func (v *Venta) AplicarAbonado(abonado decimal.Decimal, now time.Time) {
	v.Abonado = abonado
	v.Resto = v.Total.Sub(abonado)
	v.PagadoCompletamente = v.Resto.LessThanOrEqual(Tolerancia)
	switch {
	case v.PagadoCompletamente && v.FechaPagoCompleto == nil:
		v.FechaPagoCompleto = &now
	case !v.PagadoCompletamente:
		v.FechaPagoCompleto = nil
	}
}
