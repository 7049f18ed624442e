package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre          string          `json:"nombre"           validate:"required,min=2,max=200"`
	CodigoBarras    *string         `json:"codigo_barras"    validate:"omitempty,min=4,max=100"`
	Descripcion     *string         `json:"descripcion"      validate:"omitempty,max=1000"`
	Categoria       *string         `json:"categoria"        validate:"omitempty,max=100"`
	Proveedor       *string         `json:"proveedor"        validate:"omitempty,max=200"`
	PrecioProveedor decimal.Decimal `json:"precio_proveedor" validate:"min=0"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"     validate:"min=0"`
	CantidadStock   decimal.Decimal `json:"cantidad_stock"   validate:"min=0"`
	StockMinimo     decimal.Decimal `json:"stock_minimo"     validate:"min=0"`
	UnidadMedida    string          `json:"unidad_medida"    validate:"omitempty,max=50"`
}

type ActualizarProductoRequest struct {
	Nombre          *string          `json:"nombre"           validate:"omitempty,min=2,max=200"`
	CodigoBarras    *string          `json:"codigo_barras"    validate:"omitempty,min=4,max=100"`
	Descripcion     *string          `json:"descripcion"      validate:"omitempty,max=1000"`
	Categoria       *string          `json:"categoria"        validate:"omitempty,max=100"`
	Proveedor       *string          `json:"proveedor"        validate:"omitempty,max=200"`
	PrecioProveedor *decimal.Decimal `json:"precio_proveedor" validate:"omitempty,min=0"`
	PrecioVenta     *decimal.Decimal `json:"precio_venta"     validate:"omitempty,min=0"`
	CantidadStock   *decimal.Decimal `json:"cantidad_stock"   validate:"omitempty,min=0"`
	StockMinimo     *decimal.Decimal `json:"stock_minimo"     validate:"omitempty,min=0"`
	UnidadMedida    *string          `json:"unidad_medida"    validate:"omitempty,max=50"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Buscar    string `form:"buscar"`
	Categoria string `form:"categoria"`
	Activo    string `form:"activo"` // "false" = inactivos, "all" = todos
	Page      int    `form:"page,default=1"  validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID              string          `json:"id"`
	Nombre          string          `json:"nombre"`
	CodigoBarras    *string         `json:"codigo_barras"`
	Descripcion     *string         `json:"descripcion"`
	Categoria       *string         `json:"categoria"`
	Proveedor       *string         `json:"proveedor"`
	PrecioProveedor decimal.Decimal `json:"precio_proveedor"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"`
	MargenPct       decimal.Decimal `json:"margen_pct"`
	CantidadStock   decimal.Decimal `json:"cantidad_stock"`
	StockMinimo     decimal.Decimal `json:"stock_minimo"`
	UnidadMedida    string          `json:"unidad_medida"`
	BajoStock       bool            `json:"bajo_stock"`
	Activo          bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// ConsultaPrecioResponse is the public price check. It carries no cost data.
type ConsultaPrecioResponse struct {
	Nombre          string          `json:"nombre"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"`
	UnidadMedida    string          `json:"unidad_medida"`
	StockDisponible decimal.Decimal `json:"stock_disponible"`
	Categoria       *string         `json:"categoria"`
}
