package service

import (
	"context"
	"testing"

	"fiadopos/internal/dto"
	"fiadopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache records calls so tests can assert invalidations.
type memCache struct {
	datos       map[string]dto.ConsultaPrecioResponse
	invalidados []string
}

func (m *memCache) Get(_ context.Context, codigo string, dest any) bool {
	v, ok := m.datos[codigo]
	if ok {
		*dest.(*dto.ConsultaPrecioResponse) = v
	}
	return ok
}

func (m *memCache) Set(_ context.Context, codigo string, v any) {
	m.datos[codigo] = v.(dto.ConsultaPrecioResponse)
}

func (m *memCache) Invalidar(_ context.Context, codigo string) {
	delete(m.datos, codigo)
	m.invalidados = append(m.invalidados, codigo)
}

func ptr[T any](v T) *T { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (e *entorno) crearProducto(t *testing.T, codigo string) *dto.ProductoResponse {
	t.Helper()
	p, err := e.producto.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:          "Aceite girasol",
		CodigoBarras:    ptr(codigo),
		PrecioProveedor: decimal.NewFromInt(80),
		PrecioVenta:     decimal.NewFromInt(100),
		CantidadStock:   decimal.NewFromInt(12),
		StockMinimo:     decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	return p
}

func TestActualizarProducto_RegistraCambioDePrecio(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	p := e.crearProducto(t, "7790001")
	id := uuid.MustParse(p.ID)

	resp, err := e.producto.Actualizar(ctx, id, dto.ActualizarProductoRequest{PrecioVenta: dec("120")})
	require.NoError(t, err)
	assert.Equal(t, "120", resp.PrecioVenta.String())
	assert.Equal(t, "50", resp.MargenPct.String())

	hist, err := e.producto.HistorialPrecios(ctx, id, dto.PaginaQuery{Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, hist.Data, 1)
	h := hist.Data[0]
	assert.Equal(t, "100", h.VentaAntes.String())
	assert.Equal(t, "120", h.VentaDespues.String())
	assert.Equal(t, "80", h.CostoAntes.String())
	assert.Equal(t, "80", h.CostoDespues.String())
}

func TestActualizarProducto_SinCambioDePrecioNoDejaHistorial(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	p := e.crearProducto(t, "7790002")
	id := uuid.MustParse(p.ID)

	_, err := e.producto.Actualizar(ctx, id, dto.ActualizarProductoRequest{
		Nombre:      ptr("Aceite de girasol 900ml"),
		PrecioVenta: dec("100"),
	})
	require.NoError(t, err)

	hist, err := e.producto.HistorialPrecios(ctx, id, dto.PaginaQuery{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Empty(t, hist.Data)
	assert.Zero(t, hist.Total)
}

func TestActualizarProducto_AjusteDeStockGeneraMovimiento(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	p := e.crearProducto(t, "7790003")
	id := uuid.MustParse(p.ID)

	resp, err := e.producto.Actualizar(ctx, id, dto.ActualizarProductoRequest{CantidadStock: dec("2")})
	require.NoError(t, err)
	assert.Equal(t, "2", resp.CantidadStock.String())
	assert.True(t, resp.BajoStock)

	movs, err := e.producto.MovimientosStock(ctx, id, dto.PaginaQuery{Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, movs.Data, 1)
	m := movs.Data[0]
	assert.Equal(t, model.MovimientoAjuste, m.Tipo)
	assert.Equal(t, "-10", m.Cantidad.String())
	assert.Equal(t, "12", m.StockAnterior.String())
	assert.Equal(t, "2", m.StockNuevo.String())
	assert.Nil(t, m.ReferenciaID)

	// same value again is not a movement
	_, err = e.producto.Actualizar(ctx, id, dto.ActualizarProductoRequest{CantidadStock: dec("2")})
	require.NoError(t, err)
	movs, err = e.producto.MovimientosStock(ctx, id, dto.PaginaQuery{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 1, movs.Total)
}

func TestActualizarProducto_CodigoDuplicado(t *testing.T) {
	e := nuevoEntorno(t)
	e.crearProducto(t, "7790004")
	p := e.crearProducto(t, "7790005")

	_, err := e.producto.Actualizar(context.Background(), uuid.MustParse(p.ID),
		dto.ActualizarProductoRequest{CodigoBarras: ptr("7790004"), PrecioVenta: dec("1")})
	assert.ErrorIs(t, err, ErrDuplicado)

	// the price change was rolled back with the failed update
	hist, err := e.producto.HistorialPrecios(context.Background(), uuid.MustParse(p.ID), dto.PaginaQuery{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Empty(t, hist.Data)
}

func TestActualizarProducto_Inexistente(t *testing.T) {
	e := nuevoEntorno(t)
	_, err := e.producto.Actualizar(context.Background(), uuid.New(), dto.ActualizarProductoRequest{Nombre: ptr("Nada")})
	assert.ErrorIs(t, err, ErrNoEncontrado)

	_, err = e.producto.MovimientosStock(context.Background(), uuid.New(), dto.PaginaQuery{Page: 1, Limit: 50})
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestConsultarPrecio_UsaCacheEInvalida(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	cache := &memCache{datos: map[string]dto.ConsultaPrecioResponse{}}
	e.producto = NewProductoService(e.productos, nil, nil, cache)
	p := e.crearProducto(t, "7790006")

	resp, err := e.producto.ConsultarPrecio(ctx, "7790006")
	require.NoError(t, err)
	assert.Equal(t, "Aceite girasol", resp.Nombre)
	assert.Equal(t, "100", resp.PrecioVenta.String())
	assert.Contains(t, cache.datos, "7790006")

	// a cached entry is served without touching the database
	cache.datos["7790006"] = dto.ConsultaPrecioResponse{Nombre: "cacheado"}
	resp, err = e.producto.ConsultarPrecio(ctx, "7790006")
	require.NoError(t, err)
	assert.Equal(t, "cacheado", resp.Nombre)

	_, err = e.producto.Actualizar(ctx, uuid.MustParse(p.ID), dto.ActualizarProductoRequest{CodigoBarras: ptr("7790007")})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"7790006", "7790007"}, cache.invalidados)
	assert.NotContains(t, cache.datos, "7790006")

	_, err = e.producto.ConsultarPrecio(ctx, "7790006")
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestDesactivarProducto_InvalidaCache(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	cache := &memCache{datos: map[string]dto.ConsultaPrecioResponse{}}
	e.producto = NewProductoService(e.productos, nil, nil, cache)
	p := e.crearProducto(t, "7790008")

	_, err := e.producto.ConsultarPrecio(ctx, "7790008")
	require.NoError(t, err)
	require.NoError(t, e.producto.Desactivar(ctx, uuid.MustParse(p.ID)))
	assert.Equal(t, []string{"7790008"}, cache.invalidados)
}
