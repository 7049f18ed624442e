package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAplicarAbonado(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("parcial", func(t *testing.T) {
		v := &Venta{Total: d("100"), EsFiado: true}
		v.AplicarAbonado(d("40"), now)
		assert.Equal(t, "60", v.Resto.String())
		assert.False(t, v.PagadoCompletamente)
		assert.Nil(t, v.FechaPagoCompleto)
		assert.True(t, v.Pendiente())
	})

	t.Run("dentro de tolerancia cuenta como pagada", func(t *testing.T) {
		v := &Venta{Total: d("100"), EsFiado: true}
		v.AplicarAbonado(d("99.99"), now)
		assert.True(t, v.PagadoCompletamente)
		require.NotNil(t, v.FechaPagoCompleto)
		assert.Equal(t, now, *v.FechaPagoCompleto)
		assert.False(t, v.Pendiente())
	})

	t.Run("conserva la fecha de pago original", func(t *testing.T) {
		antes := now.Add(-time.Hour)
		v := &Venta{Total: d("50"), EsFiado: true, FechaPagoCompleto: &antes}
		v.AplicarAbonado(d("50"), now)
		assert.Equal(t, antes, *v.FechaPagoCompleto)
	})

	t.Run("reabrir limpia la fecha de pago", func(t *testing.T) {
		v := &Venta{Total: d("50"), EsFiado: true}
		v.AplicarAbonado(d("50"), now)
		v.AplicarAbonado(d("20"), now)
		assert.False(t, v.PagadoCompletamente)
		assert.Nil(t, v.FechaPagoCompleto)
		assert.Equal(t, "30", v.Resto.String())
	})
}

func TestItemsVenta(t *testing.T) {
	pid := uuid.New()
	items := ItemsVenta{
		{Nombre: "Yerba", Subtotal: d("10.50"), ProductoID: &pid, DescontarStock: true},
		{Nombre: "Varios", Subtotal: d("4.25"), DescontarStock: true},
		{Nombre: "Pan", Subtotal: d("1"), ProductoID: &pid},
	}
	assert.Equal(t, "15.75", items.Total().StringFixed(2))

	conStock := items.ConStock()
	require.Len(t, conStock, 1)
	assert.Equal(t, "Yerba", conStock[0].Nombre)
}

func TestItemsVenta_ValueScan(t *testing.T) {
	var nilItems ItemsVenta
	v, err := nilItems.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	items := ItemsVenta{{Nombre: "Queso", PrecioUnitario: d("12.5"), Cantidad: d("0.5"), Subtotal: d("6.25")}}
	raw, err := items.Value()
	require.NoError(t, err)

	var leidos ItemsVenta
	require.NoError(t, leidos.Scan([]byte(raw.(string))))
	require.Len(t, leidos, 1)
	assert.True(t, leidos[0].Subtotal.Equal(d("6.25")))

	assert.Error(t, leidos.Scan(42))
}

func TestVentaBeforeCreate(t *testing.T) {
	v := &Venta{}
	require.NoError(t, v.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, v.ID)
	assert.False(t, v.Fecha.IsZero())

	id := uuid.New()
	fecha := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	v = &Venta{ID: id, Fecha: fecha}
	require.NoError(t, v.BeforeCreate(nil))
	assert.Equal(t, id, v.ID)
	assert.Equal(t, fecha, v.Fecha)
}

func TestEnCentavos(t *testing.T) {
	assert.True(t, EnCentavos(d("10")))
	assert.True(t, EnCentavos(d("99.99")))
	assert.False(t, EnCentavos(d("0.004")))
	assert.False(t, EnCentavos(d("99.991")))
}
