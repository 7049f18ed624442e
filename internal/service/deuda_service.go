package service

import (
	"context"
	"time"

	"fiadopos/internal/model"
	"fiadopos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ResultadoSincronizacion is the outcome of reconciling one customer.
type ResultadoSincronizacion struct {
	ClienteID     uuid.UUID
	Corregido     bool
	DeudaAnterior decimal.Decimal
	DeudaReal     decimal.Decimal
	Diferencia    decimal.Decimal // DeudaReal - DeudaAnterior
}

// DiferenciaDeuda is one corrected customer inside a batch report.
type DiferenciaDeuda struct {
	ClienteID     uuid.UUID
	Nombre        string
	DeudaAnterior decimal.Decimal
	DeudaReal     decimal.Decimal
	Diferencia    decimal.Decimal
}

type ReporteSincronizacion struct {
	TotalClientes      int
	ClientesCorregidos int
	Diferencias        []DiferenciaDeuda
}

// DeudaService derives a customer's debt from the sale/abono ledger and
// repairs the cached clientes.deuda_total when it drifts.
type DeudaService interface {
	CalcularDeudaReal(ctx context.Context, clienteID uuid.UUID) (decimal.Decimal, error)
	SincronizarCliente(ctx context.Context, clienteID uuid.UUID) (*ResultadoSincronizacion, error)
	SincronizarTodos(ctx context.Context) (*ReporteSincronizacion, error)

	// Tx variants let ledger mutations resync inside their own transaction.
	CalcularDeudaRealTx(tx *gorm.DB, clienteID uuid.UUID) (decimal.Decimal, error)
	SincronizarClienteTx(tx *gorm.DB, clienteID uuid.UUID) (*ResultadoSincronizacion, error)
}

type deudaService struct {
	clientes repository.ClienteRepository
	ventas   repository.VentaRepository
	now      func() time.Time
}

func NewDeudaService(clientes repository.ClienteRepository, ventas repository.VentaRepository) DeudaService {
	return &deudaService{clientes: clientes, ventas: ventas, now: time.Now}
}

// ── Derivation ───────────────────────────────────────────────────────────────

func (s *deudaService) CalcularDeudaReal(ctx context.Context, clienteID uuid.UUID) (decimal.Decimal, error) {
	db := s.ventas.DB().WithContext(ctx)
	if _, err := s.clientes.FindByIDTx(db, clienteID); err != nil {
		return decimal.Zero, noEncontrado(err, "cliente")
	}
	return s.CalcularDeudaRealTx(db, clienteID)
}

// CalcularDeudaRealTx sums resto over the customer's open credit sales.
// It never writes.
func (s *deudaService) CalcularDeudaRealTx(tx *gorm.DB, clienteID uuid.UUID) (decimal.Decimal, error) {
	pendientes, err := s.ventas.ListPendientesClienteTx(tx, clienteID)
	if err != nil {
		return decimal.Zero, err
	}
	return sumarResto(pendientes), nil
}

func sumarResto(ventas []model.Venta) decimal.Decimal {
	total := decimal.Zero
	for i := range ventas {
		total = total.Add(ventas[i].Resto)
	}
	return total
}

// ── Reconciliation ───────────────────────────────────────────────────────────

func (s *deudaService) SincronizarCliente(ctx context.Context, clienteID uuid.UUID) (*ResultadoSincronizacion, error) {
	var res *ResultadoSincronizacion
	err := enTransaccion(ctx, s.clientes.DB(), func(tx *gorm.DB) error {
		var err error
		res, err = s.SincronizarClienteTx(tx, clienteID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *deudaService) SincronizarClienteTx(tx *gorm.DB, clienteID uuid.UUID) (*ResultadoSincronizacion, error) {
	cliente, err := s.clientes.FindByIDTx(tx, clienteID)
	if err != nil {
		return nil, noEncontrado(err, "cliente")
	}
	return s.sincronizar(tx, cliente)
}

func (s *deudaService) sincronizar(tx *gorm.DB, cliente *model.Cliente) (*ResultadoSincronizacion, error) {
	deudaReal, err := s.CalcularDeudaRealTx(tx, cliente.ID)
	if err != nil {
		return nil, err
	}
	res := &ResultadoSincronizacion{
		ClienteID:     cliente.ID,
		DeudaAnterior: cliente.DeudaTotal,
		DeudaReal:     deudaReal,
		Diferencia:    deudaReal.Sub(cliente.DeudaTotal),
	}
	if res.Diferencia.Abs().LessThanOrEqual(model.Tolerancia) {
		return res, nil
	}
	if err := s.clientes.UpdateDeudaTx(tx, cliente.ID, deudaReal, s.now()); err != nil {
		return nil, err
	}
	res.Corregido = true
	log.Info().
		Str("cliente_id", cliente.ID.String()).
		Str("deuda_anterior", cliente.DeudaTotal.StringFixed(2)).
		Str("deuda_real", deudaReal.StringFixed(2)).
		Msg("deuda: cache corregido")
	return res, nil
}

// SincronizarTodos reconciles every active customer in one transaction.
// Any failure rolls back all corrections.
func (s *deudaService) SincronizarTodos(ctx context.Context) (*ReporteSincronizacion, error) {
	reporte := &ReporteSincronizacion{Diferencias: []DiferenciaDeuda{}}
	err := enTransaccion(ctx, s.clientes.DB(), func(tx *gorm.DB) error {
		clientes, err := s.clientes.ListActivosTx(tx)
		if err != nil {
			return err
		}
		reporte.TotalClientes = len(clientes)
		for i := range clientes {
			c := &clientes[i]
			res, err := s.sincronizar(tx, c)
			if err != nil {
				return err
			}
			if !res.Corregido {
				continue
			}
			reporte.ClientesCorregidos++
			reporte.Diferencias = append(reporte.Diferencias, DiferenciaDeuda{
				ClienteID:     c.ID,
				Nombre:        c.Nombre,
				DeudaAnterior: res.DeudaAnterior,
				DeudaReal:     res.DeudaReal,
				Diferencia:    res.Diferencia,
			})
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("deuda: sincronizacion global fallida, sin cambios")
		return nil, err
	}
	log.Info().
		Int("total_clientes", reporte.TotalClientes).
		Int("clientes_corregidos", reporte.ClientesCorregidos).
		Msg("deuda: sincronizacion global completada")
	return reporte, nil
}
