package dto

import "github.com/shopspring/decimal"

// HistorialPrecioItem is one row in the price-history list.
type HistorialPrecioItem struct {
	ID           string          `json:"id"`
	ProductoID   string          `json:"producto_id"`
	CostoAntes   decimal.Decimal `json:"costo_antes"`
	CostoDespues decimal.Decimal `json:"costo_despues"`
	VentaAntes   decimal.Decimal `json:"venta_antes"`
	VentaDespues decimal.Decimal `json:"venta_despues"`
	CreatedAt    string          `json:"created_at"`
}

// HistorialPrecioListResponse is returned by GET /v1/productos/:id/historial-precios.
type HistorialPrecioListResponse struct {
	Data  []HistorialPrecioItem `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// MovimientoStockItem is one stock change. Cantidad is signed.
type MovimientoStockItem struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	Tipo          string          `json:"tipo"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	StockAnterior decimal.Decimal `json:"stock_anterior"`
	StockNuevo    decimal.Decimal `json:"stock_nuevo"`
	ReferenciaID  *string         `json:"referencia_id,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type MovimientoStockListResponse struct {
	Data  []MovimientoStockItem `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// PaginaQuery binds ?page=&limit= for the audit listings.
type PaginaQuery struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}
