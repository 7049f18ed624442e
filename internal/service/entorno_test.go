package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fiadopos/internal/dto"
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

// ── In-memory store ──────────────────────────────────────────────────────────

// entorno wires the real repositories and services over an in-memory SQLite
// database migrated with the production models.
type entorno struct {
	db        *gorm.DB
	clientes  repository.ClienteRepository
	ventas    repository.VentaRepository
	abonos    repository.AbonoRepository
	productos repository.ProductoRepository

	deuda    DeudaService
	abono    AbonoService
	venta    VentaService
	cliente  ClienteService
	producto ProductoService
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection: every ":memory:" connection is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, infra.RunMigrations(db))

	e := &entorno{
		db:        db,
		clientes:  repository.NewClienteRepository(db),
		ventas:    repository.NewVentaRepository(db),
		abonos:    repository.NewAbonoRepository(db),
		productos: repository.NewProductoRepository(db),
	}
	e.deuda = NewDeudaService(e.clientes, e.ventas)
	e.abono = NewAbonoService(e.abonos, e.ventas, e.clientes, e.deuda, nil)
	e.venta = NewVentaService(e.ventas, e.abonos, e.clientes, e.productos, e.abono, e.deuda, nil)
	e.cliente = NewClienteService(e.clientes, e.ventas, e.deuda)
	e.producto = NewProductoService(e.productos,
		repository.NewHistorialPrecioRepository(db), repository.NewMovimientoStockRepository(db), nil)
	return e
}

var vendedor = Identidad{UsuarioID: uuid.MustParse("9b1f3c1e-5d4a-4c1e-9a55-0f6f7d1b2c3d"), Nombre: "Marta", Rol: model.RolVendedor}

func (e *entorno) crearCliente(t *testing.T, nombre string, limite int64) *model.Cliente {
	t.Helper()
	c := &model.Cliente{Nombre: nombre, LimiteCredito: decimal.NewFromInt(limite), Activo: true}
	require.NoError(t, e.clientes.Create(context.Background(), c))
	return c
}

func item(nombre string, precio int64) dto.ItemVentaRequest {
	return dto.ItemVentaRequest{Nombre: nombre, PrecioUnitario: decimal.NewFromInt(precio), Cantidad: decimal.NewFromInt(1)}
}

func (e *entorno) venderFiado(t *testing.T, clienteID uuid.UUID, total, abonoInicial int64) *model.Venta {
	t.Helper()
	cid := clienteID.String()
	v, err := e.venta.CrearVenta(context.Background(), vendedor, dto.CrearVentaRequest{
		Items:        []dto.ItemVentaRequest{item("Varios", total)},
		EsFiado:      true,
		ClienteID:    &cid,
		AbonoInicial: decimal.NewFromInt(abonoInicial),
	})
	require.NoError(t, err)
	return v
}

// fechar moves a sale in time so FIFO ordering does not depend on insert speed.
func (e *entorno) fechar(t *testing.T, ventaID uuid.UUID, fecha time.Time) {
	t.Helper()
	require.NoError(t, e.db.Model(&model.Venta{}).Where("id = ?", ventaID).UpdateColumn("fecha", fecha).Error)
}

// fallarUpdate makes the n-th UPDATE on tabla fail from now on, as a broken
// store would mid-transaction.
func (e *entorno) fallarUpdate(t *testing.T, tabla string, n int) {
	t.Helper()
	vistos := 0
	err := e.db.Callback().Update().Before("gorm:update").Register("test:fallar_update", func(tx *gorm.DB) {
		if tx.Statement.Table != tabla {
			return
		}
		vistos++
		if vistos == n {
			_ = tx.AddError(errors.New("store: escritura rechazada"))
		}
	})
	require.NoError(t, err)
}

func (e *entorno) contarAbonos(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.Abono{}).Count(&n).Error)
	return n
}

func (e *entorno) corromperDeuda(t *testing.T, clienteID uuid.UUID, valor string) {
	t.Helper()
	require.NoError(t, e.db.Model(&model.Cliente{}).Where("id = ?", clienteID).
		UpdateColumn("deuda_total", decimal.RequireFromString(valor)).Error)
}

func (e *entorno) deudaRegistrada(t *testing.T, clienteID uuid.UUID) decimal.Decimal {
	t.Helper()
	c, err := e.clientes.FindByID(context.Background(), clienteID)
	require.NoError(t, err)
	return c.DeudaTotal
}

func (e *entorno) recargarVenta(t *testing.T, ventaID uuid.UUID) *model.Venta {
	t.Helper()
	v, err := e.ventas.FindByID(context.Background(), ventaID)
	require.NoError(t, err)
	return v
}

func assertMonto(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), msgAndArgs...)
}

func dtoContado(clienteID *string, total int64) dto.CrearVentaRequest {
	return dto.CrearVentaRequest{
		Items:     []dto.ItemVentaRequest{item("Contado", total)},
		ClienteID: clienteID,
	}
}
