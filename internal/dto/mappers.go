package dto

import (
	"time"

	"fiadopos/internal/model"
)

func formatFecha(t time.Time) string { return t.Format(time.RFC3339) }

func FromAbono(a *model.Abono) AbonoResponse {
	return AbonoResponse{
		ID:            a.ID.String(),
		VentaID:       a.VentaID.String(),
		UsuarioID:     a.UsuarioID.String(),
		UsuarioNombre: a.UsuarioNombre,
		Monto:         a.Monto,
		Fecha:         formatFecha(a.Fecha),
		Notas:         a.Notas,
	}
}

func FromAbonos(abonos []model.Abono) []AbonoResponse {
	out := make([]AbonoResponse, len(abonos))
	for i := range abonos {
		out[i] = FromAbono(&abonos[i])
	}
	return out
}

func FromVenta(v *model.Venta) VentaResponse {
	resp := VentaResponse{
		ID:                  v.ID.String(),
		Fecha:               formatFecha(v.Fecha),
		UsuarioID:           v.UsuarioID.String(),
		UsuarioNombre:       v.UsuarioNombre,
		ClienteNombre:       v.ClienteNombre,
		Items:               make([]ItemVentaResponse, len(v.Productos)),
		Total:               v.Total,
		EsFiado:             v.EsFiado,
		Abonado:             v.Abonado,
		Resto:               v.Resto,
		PagadoCompletamente: v.PagadoCompletamente,
		MetodoPago:          v.MetodoPago,
		Notas:               v.Notas,
	}
	if v.ClienteID != nil {
		id := v.ClienteID.String()
		resp.ClienteID = &id
	}
	if v.FechaPagoCompleto != nil {
		f := formatFecha(*v.FechaPagoCompleto)
		resp.FechaPagoCompleto = &f
	}
	for i, it := range v.Productos {
		item := ItemVentaResponse{
			Nombre:         it.Nombre,
			PrecioUnitario: it.PrecioUnitario,
			Cantidad:       it.Cantidad,
			Subtotal:       it.Subtotal,
			DescontarStock: it.DescontarStock,
		}
		if it.ProductoID != nil {
			pid := it.ProductoID.String()
			item.ProductoID = &pid
		}
		resp.Items[i] = item
	}
	if len(v.Abonos) > 0 {
		resp.Abonos = FromAbonos(v.Abonos)
	}
	return resp
}

func FromVentas(ventas []model.Venta) []VentaResponse {
	out := make([]VentaResponse, len(ventas))
	for i := range ventas {
		out[i] = FromVenta(&ventas[i])
	}
	return out
}

func FromCliente(c *model.Cliente) ClienteResponse {
	return ClienteResponse{
		ID:            c.ID.String(),
		Nombre:        c.Nombre,
		Telefono:      c.Telefono,
		Direccion:     c.Direccion,
		Email:         c.Email,
		LimiteCredito: c.LimiteCredito,
		DeudaTotal:    c.DeudaTotal,
		Notas:         c.Notas,
		Activo:        c.Activo,
	}
}

func FromProducto(p *model.Producto) ProductoResponse {
	return ProductoResponse{
		ID:              p.ID.String(),
		Nombre:          p.Nombre,
		CodigoBarras:    p.CodigoBarras,
		Descripcion:     p.Descripcion,
		Categoria:       p.Categoria,
		Proveedor:       p.Proveedor,
		PrecioProveedor: p.PrecioProveedor,
		PrecioVenta:     p.PrecioVenta,
		MargenPct:       p.MargenPct(),
		CantidadStock:   p.CantidadStock,
		StockMinimo:     p.StockMinimo,
		UnidadMedida:    p.UnidadMedida,
		BajoStock:       p.BajoStock(),
		Activo:          p.Activo,
	}
}

func FromHistorialPrecio(h *model.HistorialPrecio) HistorialPrecioItem {
	return HistorialPrecioItem{
		ID:           h.ID.String(),
		ProductoID:   h.ProductoID.String(),
		CostoAntes:   h.CostoAntes,
		CostoDespues: h.CostoDespues,
		VentaAntes:   h.VentaAntes,
		VentaDespues: h.VentaDespues,
		CreatedAt:    formatFecha(h.CreatedAt),
	}
}

func FromMovimientoStock(m *model.MovimientoStock) MovimientoStockItem {
	item := MovimientoStockItem{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		CreatedAt:     formatFecha(m.CreatedAt),
	}
	if m.ReferenciaID != nil {
		s := m.ReferenciaID.String()
		item.ReferenciaID = &s
	}
	return item
}

func ToConsultaPrecio(p *model.Producto) ConsultaPrecioResponse {
	return ConsultaPrecioResponse{
		Nombre:          p.Nombre,
		PrecioVenta:     p.PrecioVenta,
		UnidadMedida:    p.UnidadMedida,
		StockDisponible: p.CantidadStock,
		Categoria:       p.Categoria,
	}
}
