package service

import (
	"context"
	"testing"
	"time"

	"fiadopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearAbono_ActualizaVentaYDeuda(t *testing.T) {
	e := nuevoEntorno(t)
	c := e.crearCliente(t, "Luis", 0)
	v := e.venderFiado(t, c.ID, 100, 0)

	nota := "pago parcial"
	a, err := e.abono.CrearAbono(context.Background(), vendedor, v.ID, decimal.NewFromInt(40), &nota)
	require.NoError(t, err)
	assert.Equal(t, vendedor.UsuarioID, a.UsuarioID)
	assert.Equal(t, "Marta", a.UsuarioNombre)

	v = e.recargarVenta(t, v.ID)
	assertMonto(t, "40.00", v.Abonado)
	assertMonto(t, "60.00", v.Resto)
	assert.False(t, v.PagadoCompletamente)
	assert.Nil(t, v.FechaPagoCompleto)
	require.Len(t, v.Abonos, 1)
	assertMonto(t, "60.00", e.deudaRegistrada(t, c.ID))
}

func TestCrearAbono_CierraVentaAlCompletar(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := e.crearCliente(t, "Luis", 0)
	v := e.venderFiado(t, c.ID, 100, 0)

	_, err := e.abono.CrearAbono(ctx, vendedor, v.ID, decimal.NewFromInt(40), nil)
	require.NoError(t, err)
	_, err = e.abono.CrearAbono(ctx, vendedor, v.ID, decimal.NewFromInt(60), nil)
	require.NoError(t, err)

	v = e.recargarVenta(t, v.ID)
	assert.True(t, v.PagadoCompletamente)
	assert.NotNil(t, v.FechaPagoCompleto)
	assertMonto(t, "0.00", v.Resto)
	assertMonto(t, "0.00", e.deudaRegistrada(t, c.ID))

	pendientes, err := e.venta.ListarPendientes(ctx)
	require.NoError(t, err)
	assert.Empty(t, pendientes)
}

func TestCrearAbono_RechazaSobrepago(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := e.crearCliente(t, "Luis", 0)
	v := e.venderFiado(t, c.ID, 100, 0)

	_, err := e.abono.CrearAbono(ctx, vendedor, v.ID, decimal.RequireFromString("100.01"), nil)
	assert.ErrorIs(t, err, ErrSobrepago)

	abonos, err := e.abono.ListarAbonos(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, abonos)
	assertMonto(t, "100.00", e.deudaRegistrada(t, c.ID))
}

func TestCrearAbono_MontoInvalido(t *testing.T) {
	e := nuevoEntorno(t)
	c := e.crearCliente(t, "Luis", 0)
	v := e.venderFiado(t, c.ID, 100, 0)

	for _, m := range []int64{0, -5} {
		_, err := e.abono.CrearAbono(context.Background(), vendedor, v.ID, decimal.NewFromInt(m), nil)
		assert.ErrorIs(t, err, ErrMontoInvalido, "monto %d", m)
	}
}

func TestCrearAbono_FraccionDeCentavo(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := e.crearCliente(t, "Luis", 0)
	v := e.venderFiado(t, c.ID, 100, 0)

	for _, m := range []string{"0.004", "99.991"} {
		_, err := e.abono.CrearAbono(ctx, vendedor, v.ID, decimal.RequireFromString(m), nil)
		assert.ErrorIs(t, err, ErrMontoInvalido, "monto %s", m)
	}

	abonos, err := e.abono.ListarAbonos(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, abonos)
	v = e.recargarVenta(t, v.ID)
	assert.False(t, v.PagadoCompletamente)
	assertMonto(t, "100.00", v.Resto)
}

func TestCrearAbono_FalloTrasInsertarNoDejaRastro(t *testing.T) {
	for _, tabla := range []string{"ventas", "clientes"} {
		t.Run(tabla, func(t *testing.T) {
			e := nuevoEntorno(t)
			ctx := context.Background()
			c := e.crearCliente(t, "Luis", 0)
			v := e.venderFiado(t, c.ID, 100, 0)
			antes := e.contarAbonos(t)

			// ventas: totals recompute; clientes: cached debt resync
			e.fallarUpdate(t, tabla, 1)

			_, err := e.abono.CrearAbono(ctx, vendedor, v.ID, decimal.NewFromInt(40), nil)
			assert.ErrorIs(t, err, ErrTransaccion)

			assert.Equal(t, antes, e.contarAbonos(t))
			v = e.recargarVenta(t, v.ID)
			assertMonto(t, "0.00", v.Abonado)
			assertMonto(t, "100.00", v.Resto)
			assertMonto(t, "100.00", e.deudaRegistrada(t, c.ID))
		})
	}
}

func TestCrearAbono_VentaContado(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	v, err := e.venta.CrearVenta(ctx, vendedor, dtoContado(nil, 50))
	require.NoError(t, err)

	_, err = e.abono.CrearAbono(ctx, vendedor, v.ID, decimal.NewFromInt(10), nil)
	assert.ErrorIs(t, err, ErrVentaNoFiada)
}

func TestCrearAbono_VentaInexistente(t *testing.T) {
	e := nuevoEntorno(t)
	_, err := e.abono.CrearAbono(context.Background(), vendedor, uuid.New(), decimal.NewFromInt(10), nil)
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestCrearAbono_SinIdentidad(t *testing.T) {
	e := nuevoEntorno(t)
	c := e.crearCliente(t, "Luis", 0)
	v := e.venderFiado(t, c.ID, 100, 0)

	_, err := e.abono.CrearAbono(context.Background(), Identidad{}, v.ID, decimal.NewFromInt(10), nil)
	assert.ErrorIs(t, err, ErrPermisos)
}

func TestEliminarAbono_ReabreVenta(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := e.crearCliente(t, "Luis", 0)
	v := e.venderFiado(t, c.ID, 100, 0)

	_, err := e.abono.CrearAbono(ctx, vendedor, v.ID, decimal.NewFromInt(70), nil)
	require.NoError(t, err)
	ultimo, err := e.abono.CrearAbono(ctx, vendedor, v.ID, decimal.NewFromInt(30), nil)
	require.NoError(t, err)
	require.True(t, e.recargarVenta(t, v.ID).PagadoCompletamente)

	require.NoError(t, e.abono.EliminarAbono(ctx, ultimo.ID))

	v = e.recargarVenta(t, v.ID)
	assert.False(t, v.PagadoCompletamente)
	assert.Nil(t, v.FechaPagoCompleto)
	assertMonto(t, "70.00", v.Abonado)
	assertMonto(t, "30.00", v.Resto)
	assertMonto(t, "30.00", e.deudaRegistrada(t, c.ID))

	err = e.abono.EliminarAbono(ctx, ultimo.ID)
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestRecalcularTotales_ReparaCamposDerivados(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := e.crearCliente(t, "Luis", 0)
	v := e.venderFiado(t, c.ID, 100, 25)

	require.NoError(t, e.db.Model(&model.Venta{}).Where("id = ?", v.ID).UpdateColumns(map[string]interface{}{
		"abonado":              decimal.Zero,
		"resto":                decimal.Zero,
		"pagado_completamente": true,
	}).Error)

	actual, err := e.abono.RecalcularTotales(ctx, nil, v.ID)
	require.NoError(t, err)
	assertMonto(t, "25.00", actual.Abonado)
	assertMonto(t, "75.00", actual.Resto)
	assert.False(t, actual.PagadoCompletamente)

	v = e.recargarVenta(t, v.ID)
	assertMonto(t, "75.00", v.Resto)
}

// ── Customer-level payments ──────────────────────────────────────────────────

func TestAbonarCliente_DistribuyeDeLaMasAntigua(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := e.crearCliente(t, "Elena", 0)

	nueva := e.venderFiado(t, c.ID, 50, 0)
	vieja := e.venderFiado(t, c.ID, 100, 0)
	e.fechar(t, vieja.ID, time.Now().Add(-48*time.Hour))
	e.fechar(t, nueva.ID, time.Now().Add(-24*time.Hour))

	dist, err := e.abono.AbonarCliente(ctx, vendedor, c.ID, decimal.NewFromInt(120), nil)
	require.NoError(t, err)
	assertMonto(t, "120.00", dist.MontoTotal)
	require.Len(t, dist.Aplicaciones, 2)

	assert.Equal(t, vieja.ID, dist.Aplicaciones[0].VentaID)
	assertMonto(t, "100.00", dist.Aplicaciones[0].Monto)
	assert.True(t, dist.Aplicaciones[0].VentaPagada)

	assert.Equal(t, nueva.ID, dist.Aplicaciones[1].VentaID)
	assertMonto(t, "20.00", dist.Aplicaciones[1].Monto)
	assertMonto(t, "50.00", dist.Aplicaciones[1].RestoPrevio)
	assertMonto(t, "30.00", dist.Aplicaciones[1].RestoActual)
	assert.False(t, dist.Aplicaciones[1].VentaPagada)

	assertMonto(t, "30.00", dist.DeudaRestante)
	assertMonto(t, "30.00", e.deudaRegistrada(t, c.ID))
}

func TestAbonarCliente_MayorQueLaDeuda(t *testing.T) {
	e := nuevoEntorno(t)
	c := e.crearCliente(t, "Elena", 0)
	e.venderFiado(t, c.ID, 50, 0)

	_, err := e.abono.AbonarCliente(context.Background(), vendedor, c.ID, decimal.NewFromInt(51), nil)
	assert.ErrorIs(t, err, ErrSobrepago)
	assertMonto(t, "50.00", e.deudaRegistrada(t, c.ID))
}

func TestAbonarCliente_FraccionDeCentavo(t *testing.T) {
	e := nuevoEntorno(t)
	c := e.crearCliente(t, "Elena", 0)
	v := e.venderFiado(t, c.ID, 50, 0)

	_, err := e.abono.AbonarCliente(context.Background(), vendedor, c.ID, decimal.RequireFromString("10.005"), nil)
	assert.ErrorIs(t, err, ErrMontoInvalido)

	abonos, err := e.abono.ListarAbonos(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Empty(t, abonos)
	assertMonto(t, "50.00", e.deudaRegistrada(t, c.ID))
}

func TestAbonarCliente_SinDeuda(t *testing.T) {
	e := nuevoEntorno(t)
	c := e.crearCliente(t, "Elena", 0)

	_, err := e.abono.AbonarCliente(context.Background(), vendedor, c.ID, decimal.NewFromInt(10), nil)
	assert.ErrorIs(t, err, ErrSinDeuda)
}

func TestLiquidarCliente_PagaTodo(t *testing.T) {
	e := nuevoEntorno(t)
	ctx := context.Background()
	c := e.crearCliente(t, "Elena", 0)
	e.venderFiado(t, c.ID, 100, 40)
	e.venderFiado(t, c.ID, 50, 0)

	dist, err := e.abono.LiquidarCliente(ctx, vendedor, c.ID)
	require.NoError(t, err)
	assertMonto(t, "110.00", dist.MontoTotal)
	assert.Len(t, dist.Aplicaciones, 2)
	assert.True(t, dist.DeudaRestante.IsZero())

	pendientes, err := e.venta.ListarPorCliente(ctx, c.ID, true)
	require.NoError(t, err)
	assert.Empty(t, pendientes)

	_, err = e.abono.LiquidarCliente(ctx, vendedor, c.ID)
	assert.ErrorIs(t, err, ErrSinDeuda)
}
