package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fiadopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ventaFiada() *model.Venta {
	nombre := "José Pérez"
	v := &model.Venta{
		ID: uuid.New(), Fecha: time.Now(), UsuarioNombre: "Marta", ClienteNombre: &nombre,
		Productos: model.ItemsVenta{
			{Nombre: "Queso cremoso por kilo, horma grande", Cantidad: decimal.RequireFromString("0.5"), Subtotal: decimal.RequireFromString("6.25")},
			{Nombre: "Pan", Cantidad: decimal.NewFromInt(2), Subtotal: decimal.NewFromInt(12)},
		},
		Total:   decimal.RequireFromString("18.25"),
		EsFiado: true,
	}
	v.AplicarAbonado(decimal.NewFromInt(10), time.Now())
	return v
}

func assertPDF(t *testing.T, path string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestGenerarTicketPDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pdfs")
	v := ventaFiada()

	path, err := GenerarTicketPDF(v, "Almacén", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ticket_"+v.ID.String()+".pdf"), path)
	assertPDF(t, path)
}

func TestGenerarReciboAbonoPDF(t *testing.T) {
	v := ventaFiada()
	notas := "pago en efectivo"
	a := &model.Abono{ID: uuid.New(), VentaID: v.ID, UsuarioNombre: "Marta", Monto: decimal.NewFromInt(10), Fecha: time.Now(), Notas: &notas}

	path, err := GenerarReciboAbonoPDF(v, a, "Almacén", t.TempDir())
	require.NoError(t, err)
	assertPDF(t, path)
}

func TestGenerarEstadoCuentaPDF(t *testing.T) {
	c := &model.Cliente{ID: uuid.New(), Nombre: "José Pérez", LimiteCredito: decimal.NewFromInt(500)}

	path, err := GenerarEstadoCuentaPDF(c, []model.Venta{*ventaFiada()}, decimal.RequireFromString("8.25"), "Almacén", t.TempDir())
	require.NoError(t, err)
	assertPDF(t, path)

	path, err = GenerarEstadoCuentaPDF(c, nil, decimal.Zero, "Almacén", t.TempDir())
	require.NoError(t, err)
	assertPDF(t, path)
}

func TestTruncar(t *testing.T) {
	assert.Equal(t, "Pan", truncar("Pan", 5))
	assert.Equal(t, "Ñand.", truncar("Ñandubay", 5))
}
