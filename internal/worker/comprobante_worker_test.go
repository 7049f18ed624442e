package worker

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"fiadopos/internal/infra"
	"fiadopos/internal/model"
	"fiadopos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type comprobanteFixture struct {
	worker  *ComprobanteWorker
	cliente *model.Cliente
	venta   *model.Venta
	abono   *model.Abono
	dir     string
}

func nuevoComprobanteFixture(t *testing.T) *comprobanteFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, infra.RunMigrations(db))

	nombre := "Ana Gómez"
	cliente := &model.Cliente{Nombre: nombre, Activo: true}
	require.NoError(t, db.Create(cliente).Error)

	venta := &model.Venta{
		UsuarioID: uuid.New(), UsuarioNombre: "Marta",
		ClienteID: &cliente.ID, ClienteNombre: &nombre,
		Productos: model.ItemsVenta{{Nombre: "Yerba 1kg", PrecioUnitario: decimal.NewFromInt(100), Cantidad: decimal.NewFromInt(1), Subtotal: decimal.NewFromInt(100)}},
		Total:     decimal.NewFromInt(100),
		EsFiado:   true,
	}
	venta.AplicarAbonado(decimal.NewFromInt(30), time.Now())
	require.NoError(t, db.Create(venta).Error)

	abono := &model.Abono{VentaID: venta.ID, UsuarioID: venta.UsuarioID, UsuarioNombre: "Marta", Monto: decimal.NewFromInt(30), Fecha: time.Now()}
	require.NoError(t, db.Create(abono).Error)

	dir := t.TempDir()
	w := NewComprobanteWorker(
		repository.NewVentaRepository(db),
		repository.NewAbonoRepository(db),
		repository.NewClienteRepository(db),
		nil, dir, "Almacén Don Pepe",
	)
	return &comprobanteFixture{worker: w, cliente: cliente, venta: venta, abono: abono, dir: dir}
}

func TestComprobanteWorker_Generar(t *testing.T) {
	f := nuevoComprobanteFixture(t)
	ctx := context.Background()

	cases := []struct {
		nombre  string
		payload ComprobanteJobPayload
		asunto  string
	}{
		{"ticket", ComprobanteJobPayload{Tipo: ComprobanteTicket, VentaID: f.venta.ID.String()}, "Ticket de venta"},
		{"recibo", ComprobanteJobPayload{Tipo: ComprobanteReciboAbono, VentaID: f.venta.ID.String(), AbonoID: f.abono.ID.String()}, "Recibo de abono"},
		{"estado de cuenta", ComprobanteJobPayload{Tipo: ComprobanteEstadoCuenta, ClienteID: f.cliente.ID.String()}, "Estado de cuenta"},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			path, asunto, err := f.worker.Generar(ctx, tc.payload)
			require.NoError(t, err)
			assert.Equal(t, tc.asunto, asunto)
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestComprobanteWorker_PayloadInvalido(t *testing.T) {
	f := nuevoComprobanteFixture(t)
	ctx := context.Background()

	for _, p := range []ComprobanteJobPayload{
		{Tipo: "factura"},
		{Tipo: ComprobanteTicket, VentaID: "no-uuid"},
		{Tipo: ComprobanteTicket, VentaID: uuid.NewString()},
		{Tipo: ComprobanteReciboAbono, VentaID: f.venta.ID.String(), AbonoID: uuid.NewString()},
		{Tipo: ComprobanteEstadoCuenta, ClienteID: uuid.NewString()},
	} {
		_, _, err := f.worker.Generar(ctx, p)
		assert.ErrorIs(t, err, ErrPayload, "%+v", p)
	}
}

func TestComprobanteWorker_ProcessDescartaPayloadInvalido(t *testing.T) {
	f := nuevoComprobanteFixture(t)

	raw, err := json.Marshal(ComprobanteJobPayload{Tipo: ComprobanteTicket, VentaID: uuid.NewString()})
	require.NoError(t, err)
	// ErrPayload is dropped rather than retried
	assert.NoError(t, f.worker.Process(context.Background(), raw))
	assert.NoError(t, f.worker.Process(context.Background(), json.RawMessage(`[`)))
}

func TestComprobanteWorker_ProcessSinDispatcher(t *testing.T) {
	f := nuevoComprobanteFixture(t)
	email := "ana@example.com"

	raw, err := json.Marshal(ComprobanteJobPayload{Tipo: ComprobanteTicket, VentaID: f.venta.ID.String(), ClienteEmail: &email})
	require.NoError(t, err)
	require.NoError(t, f.worker.Process(context.Background(), raw))

	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
