package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre        string          `json:"nombre"         validate:"required,min=2,max=200"`
	Telefono      *string         `json:"telefono"       validate:"omitempty,max=50"`
	Direccion     *string         `json:"direccion"      validate:"omitempty,max=300"`
	Email         *string         `json:"email"          validate:"omitempty,email"`
	LimiteCredito decimal.Decimal `json:"limite_credito" validate:"min=0"`
	Notas         *string         `json:"notas"          validate:"omitempty,max=1000"`
}

type ActualizarClienteRequest struct {
	Nombre        *string          `json:"nombre"         validate:"omitempty,min=2,max=200"`
	Telefono      *string          `json:"telefono"       validate:"omitempty,max=50"`
	Direccion     *string          `json:"direccion"      validate:"omitempty,max=300"`
	Email         *string          `json:"email"          validate:"omitempty,email"`
	LimiteCredito *decimal.Decimal `json:"limite_credito"`
	Notas         *string          `json:"notas"          validate:"omitempty,max=1000"`
}

// ─── Filter ─────────────────────────────────────────────────────────────────

type ClienteFilter struct {
	Buscar       string `form:"buscar"`
	SoloConDeuda bool   `form:"solo_con_deuda"`
	Inactivos    bool   `form:"inactivos"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	Telefono      *string         `json:"telefono"`
	Direccion     *string         `json:"direccion"`
	Email         *string         `json:"email"`
	LimiteCredito decimal.Decimal `json:"limite_credito"`
	DeudaTotal    decimal.Decimal `json:"deuda_total"`
	Notas         *string         `json:"notas"`
	Activo        bool            `json:"activo"`
}

// EstadoCuentaResponse lists the open credit sales of a customer with their
// payments, plus the debt derived from them.
type EstadoCuentaResponse struct {
	Cliente         ClienteResponse `json:"cliente"`
	VentasAbiertas  []VentaResponse `json:"ventas_abiertas"`
	DeudaReal       decimal.Decimal `json:"deuda_real"`
	DeudaRegistrada decimal.Decimal `json:"deuda_registrada"`
}
