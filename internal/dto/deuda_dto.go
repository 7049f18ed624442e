package dto

import "github.com/shopspring/decimal"

type DeudaClienteResponse struct {
	ClienteID string          `json:"cliente_id"`
	DeudaReal decimal.Decimal `json:"deuda_real"`
}

type SincronizacionResponse struct {
	ClienteID     string          `json:"cliente_id"`
	Corregido     bool            `json:"corregido"`
	DeudaAnterior decimal.Decimal `json:"deuda_anterior"`
	DeudaReal     decimal.Decimal `json:"deuda_real"`
	Diferencia    decimal.Decimal `json:"diferencia"`
}

type DiferenciaDeudaResponse struct {
	ClienteID     string          `json:"cliente_id"`
	Nombre        string          `json:"nombre"`
	DeudaAnterior decimal.Decimal `json:"deuda_anterior"`
	DeudaReal     decimal.Decimal `json:"deuda_real"`
	Diferencia    decimal.Decimal `json:"diferencia"`
}

type ReporteSincronizacionResponse struct {
	TotalClientes      int                       `json:"total_clientes"`
	ClientesCorregidos int                       `json:"clientes_corregidos"`
	Diferencias        []DiferenciaDeudaResponse `json:"diferencias"`
}

// SincronizacionEncoladaResponse is returned when the global resync is queued
// instead of run inline.
type SincronizacionEncoladaResponse struct {
	Encolado bool   `json:"encolado"`
	Cola     string `json:"cola"`
}
