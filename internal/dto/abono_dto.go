package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearAbonoRequest struct {
	Monto decimal.Decimal `json:"monto" validate:"required"`
	Notas *string         `json:"notas" validate:"omitempty,max=500"`
}

// AbonarClienteRequest is a customer-level payment spread over the oldest
// open credit sales first.
type AbonarClienteRequest struct {
	Monto decimal.Decimal `json:"monto" validate:"required"`
	Notas *string         `json:"notas" validate:"omitempty,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AbonoResponse struct {
	ID            string          `json:"id"`
	VentaID       string          `json:"venta_id"`
	UsuarioID     string          `json:"usuario_id"`
	UsuarioNombre string          `json:"usuario_nombre"`
	Monto         decimal.Decimal `json:"monto"`
	Fecha         string          `json:"fecha"`
	Notas         *string         `json:"notas"`
}

// AplicacionAbonoResponse is one sale touched by a customer-level payment.
type AplicacionAbonoResponse struct {
	VentaID     string          `json:"venta_id"`
	AbonoID     string          `json:"abono_id"`
	Monto       decimal.Decimal `json:"monto"`
	RestoPrevio decimal.Decimal `json:"resto_previo"`
	RestoActual decimal.Decimal `json:"resto_actual"`
	VentaPagada bool            `json:"venta_pagada"`
}

type DistribucionAbonoResponse struct {
	ClienteID     string                    `json:"cliente_id"`
	MontoTotal    decimal.Decimal           `json:"monto_total"`
	Aplicaciones  []AplicacionAbonoResponse `json:"aplicaciones"`
	DeudaRestante decimal.Decimal           `json:"deuda_restante"`
}
