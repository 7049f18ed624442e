package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha     string `form:"fecha"`                    // YYYY-MM-DD; empty = all dates
	Tipo      string `form:"tipo,default=all"`         // contado | fiado | all
	Estado    string `form:"estado,default=all"`       // pendiente | pagada | all
	ClienteID string `form:"cliente_id"  validate:"omitempty,uuid"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID     *string         `json:"producto_id"     validate:"omitempty,uuid"`
	Nombre         string          `json:"nombre"          validate:"required,min=1,max=200"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
	Cantidad       decimal.Decimal `json:"cantidad"        validate:"gt=0"`
	DescontarStock bool            `json:"descontar_stock"`
}

type CrearVentaRequest struct {
	Items        []ItemVentaRequest `json:"items"         validate:"required,min=1,dive"`
	EsFiado      bool               `json:"es_fiado"`
	ClienteID    *string            `json:"cliente_id"    validate:"omitempty,uuid"`
	AbonoInicial decimal.Decimal    `json:"abono_inicial"`
	MetodoPago   *string            `json:"metodo_pago"   validate:"omitempty,oneof=efectivo debito credito transferencia"`
	Notas        *string            `json:"notas"         validate:"omitempty,max=1000"`
	// ClienteEmail: optional. When present the comprobante worker mails the PDF ticket.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     *string         `json:"producto_id"`
	Nombre         string          `json:"nombre"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DescontarStock bool            `json:"descontar_stock"`
}

type VentaResponse struct {
	ID                  string              `json:"id"`
	Fecha               string              `json:"fecha"`
	UsuarioID           string              `json:"usuario_id"`
	UsuarioNombre       string              `json:"usuario_nombre"`
	ClienteID           *string             `json:"cliente_id"`
	ClienteNombre       *string             `json:"cliente_nombre"`
	Items               []ItemVentaResponse `json:"items"`
	Total               decimal.Decimal     `json:"total"`
	EsFiado             bool                `json:"es_fiado"`
	Abonado             decimal.Decimal     `json:"abonado"`
	Resto               decimal.Decimal     `json:"resto"`
	PagadoCompletamente bool                `json:"pagado_completamente"`
	FechaPagoCompleto   *string             `json:"fecha_pago_completo"`
	MetodoPago          *string             `json:"metodo_pago"`
	Notas               *string             `json:"notas"`
	Abonos              []AbonoResponse     `json:"abonos,omitempty"`
}
