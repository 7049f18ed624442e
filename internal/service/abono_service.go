package service

import (
	"context"
	"time"

	"fiadopos/internal/model"
	"fiadopos/internal/repository"
	"fiadopos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	notaAbonoInicial = "Abono inicial al momento de la venta"
	notaLiquidacion  = "Liquidacion total de deuda"
)

// AplicacionAbono is the share of a customer-level payment applied to one sale.
type AplicacionAbono struct {
	VentaID     uuid.UUID
	AbonoID     uuid.UUID
	Monto       decimal.Decimal
	RestoPrevio decimal.Decimal
	RestoActual decimal.Decimal
	VentaPagada bool
}

type DistribucionAbono struct {
	ClienteID     uuid.UUID
	MontoTotal    decimal.Decimal
	Aplicaciones  []AplicacionAbono
	DeudaRestante decimal.Decimal
}

// AbonoService owns the payment ledger and is the only writer of a sale's
// abonado, resto and pagado_completamente.
type AbonoService interface {
	CrearAbono(ctx context.Context, id Identidad, ventaID uuid.UUID, monto decimal.Decimal, notas *string) (*model.Abono, error)
	ListarAbonos(ctx context.Context, ventaID uuid.UUID) ([]model.Abono, error)
	EliminarAbono(ctx context.Context, abonoID uuid.UUID) error
	// RecalcularTotales rewrites the sale's derived fields from its abonos.
	// A nil tx opens its own transaction.
	RecalcularTotales(ctx context.Context, tx *gorm.DB, ventaID uuid.UUID) (*model.Venta, error)

	AbonarCliente(ctx context.Context, id Identidad, clienteID uuid.UUID, monto decimal.Decimal, notas *string) (*DistribucionAbono, error)
	LiquidarCliente(ctx context.Context, id Identidad, clienteID uuid.UUID) (*DistribucionAbono, error)

	// CrearAbonoTx inserts an abono for a sale already locked by the caller
	// and returns the recomputed sale.
	CrearAbonoTx(tx *gorm.DB, id Identidad, venta *model.Venta, monto decimal.Decimal, notas *string) (*model.Abono, *model.Venta, error)
}

type abonoService struct {
	abonos     repository.AbonoRepository
	ventas     repository.VentaRepository
	clientes   repository.ClienteRepository
	deuda      DeudaService
	dispatcher *worker.Dispatcher
	now        func() time.Time
}

func NewAbonoService(
	abonos repository.AbonoRepository,
	ventas repository.VentaRepository,
	clientes repository.ClienteRepository,
	deuda DeudaService,
	dispatcher *worker.Dispatcher,
) AbonoService {
	return &abonoService{
		abonos:     abonos,
		ventas:     ventas,
		clientes:   clientes,
		deuda:      deuda,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// ── CrearAbono ───────────────────────────────────────────────────────────────

func (s *abonoService) CrearAbono(ctx context.Context, id Identidad, ventaID uuid.UUID, monto decimal.Decimal, notas *string) (*model.Abono, error) {
	if err := id.validar(); err != nil {
		return nil, err
	}
	if !monto.IsPositive() || !model.EnCentavos(monto) {
		return nil, ErrMontoInvalido
	}

	var abono *model.Abono
	err := enTransaccion(ctx, s.abonos.DB(), func(tx *gorm.DB) error {
		venta, err := s.ventas.LockByIDTx(tx, ventaID)
		if err != nil {
			return noEncontrado(err, "venta")
		}
		if !venta.EsFiado {
			return ErrVentaNoFiada
		}
		abono, _, err = s.CrearAbonoTx(tx, id, venta, monto, notas)
		if err != nil {
			return err
		}
		return s.resincronizar(tx, venta.ClienteID)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("venta_id", ventaID.String()).
		Str("monto", monto.StringFixed(2)).
		Str("usuario", id.Nombre).
		Msg("abono registrado")
	s.encolarRecibo(ctx, abono)
	return abono, nil
}

// CrearAbonoTx reads the remaining balance from the ledger, not from the
// persisted resto.
func (s *abonoService) CrearAbonoTx(tx *gorm.DB, id Identidad, venta *model.Venta, monto decimal.Decimal, notas *string) (*model.Abono, *model.Venta, error) {
	abonado, err := s.abonos.SumaPorVentaTx(tx, venta.ID)
	if err != nil {
		return nil, nil, err
	}
	resto := venta.Total.Sub(abonado)
	if monto.GreaterThan(resto) {
		return nil, nil, ErrSobrepago
	}

	abono := &model.Abono{
		VentaID:       venta.ID,
		UsuarioID:     id.UsuarioID,
		UsuarioNombre: id.Nombre,
		Monto:         monto,
		Fecha:         s.now(),
		Notas:         notas,
	}
	if err := s.abonos.CreateTx(tx, abono); err != nil {
		return nil, nil, err
	}
	actualizada, err := s.recalcularTx(tx, venta.ID)
	if err != nil {
		return nil, nil, err
	}
	return abono, actualizada, nil
}

func (s *abonoService) ListarAbonos(ctx context.Context, ventaID uuid.UUID) ([]model.Abono, error) {
	if _, err := s.ventas.FindByIDTx(s.ventas.DB().WithContext(ctx), ventaID); err != nil {
		return nil, noEncontrado(err, "venta")
	}
	return s.abonos.ListByVenta(ctx, ventaID)
}

// ── EliminarAbono ────────────────────────────────────────────────────────────
// Reversal: the row disappears and the sale is recomputed, which may reopen it.

func (s *abonoService) EliminarAbono(ctx context.Context, abonoID uuid.UUID) error {
	abono, err := s.abonos.FindByID(ctx, abonoID)
	if err != nil {
		return noEncontrado(err, "abono")
	}

	err = enTransaccion(ctx, s.abonos.DB(), func(tx *gorm.DB) error {
		venta, err := s.ventas.LockByIDTx(tx, abono.VentaID)
		if err != nil {
			return noEncontrado(err, "venta")
		}
		if err := s.abonos.DeleteTx(tx, abonoID); err != nil {
			return noEncontrado(err, "abono")
		}
		if _, err := s.recalcularTx(tx, venta.ID); err != nil {
			return err
		}
		return s.resincronizar(tx, venta.ClienteID)
	})
	if err != nil {
		return err
	}
	log.Info().
		Str("abono_id", abonoID.String()).
		Str("venta_id", abono.VentaID.String()).
		Str("monto", abono.Monto.StringFixed(2)).
		Msg("abono eliminado")
	return nil
}

// ── RecalcularTotales ────────────────────────────────────────────────────────

func (s *abonoService) RecalcularTotales(ctx context.Context, tx *gorm.DB, ventaID uuid.UUID) (*model.Venta, error) {
	if tx != nil {
		return s.recalcularTx(tx, ventaID)
	}
	var venta *model.Venta
	err := enTransaccion(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		var err error
		venta, err = s.recalcularTx(tx, ventaID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return venta, nil
}

// recalcularTx locks the sale row, re-derives abonado from the ledger and
// persists the result. Cash sales are paid in full at creation.
func (s *abonoService) recalcularTx(tx *gorm.DB, ventaID uuid.UUID) (*model.Venta, error) {
	venta, err := s.ventas.LockByIDTx(tx, ventaID)
	if err != nil {
		return nil, noEncontrado(err, "venta")
	}
	abonado := venta.Total
	if venta.EsFiado {
		if abonado, err = s.abonos.SumaPorVentaTx(tx, ventaID); err != nil {
			return nil, err
		}
	}
	venta.AplicarAbonado(abonado, s.now())
	if err := s.ventas.UpdateTotalesTx(tx, venta); err != nil {
		return nil, err
	}
	return venta, nil
}

func (s *abonoService) resincronizar(tx *gorm.DB, clienteID *uuid.UUID) error {
	if clienteID == nil {
		return nil
	}
	_, err := s.deuda.SincronizarClienteTx(tx, *clienteID)
	return err
}

// ── Customer-level payments ──────────────────────────────────────────────────

// AbonarCliente spreads monto over the customer's open credit sales, oldest
// first, creating one abono per sale touched.
func (s *abonoService) AbonarCliente(ctx context.Context, id Identidad, clienteID uuid.UUID, monto decimal.Decimal, notas *string) (*DistribucionAbono, error) {
	if err := id.validar(); err != nil {
		return nil, err
	}
	if !monto.IsPositive() || !model.EnCentavos(monto) {
		return nil, ErrMontoInvalido
	}
	return s.distribuir(ctx, id, clienteID, &monto, notas)
}

// LiquidarCliente pays the full remaining balance of every open credit sale.
func (s *abonoService) LiquidarCliente(ctx context.Context, id Identidad, clienteID uuid.UUID) (*DistribucionAbono, error) {
	if err := id.validar(); err != nil {
		return nil, err
	}
	nota := notaLiquidacion
	return s.distribuir(ctx, id, clienteID, nil, &nota)
}

// distribuir applies monto FIFO; a nil monto means the whole debt.
func (s *abonoService) distribuir(ctx context.Context, id Identidad, clienteID uuid.UUID, monto *decimal.Decimal, notas *string) (*DistribucionAbono, error) {
	dist := &DistribucionAbono{ClienteID: clienteID}

	err := enTransaccion(ctx, s.abonos.DB(), func(tx *gorm.DB) error {
		if _, err := s.clientes.LockByIDTx(tx, clienteID); err != nil {
			return noEncontrado(err, "cliente")
		}
		pendientes, err := s.ventas.ListPendientesClienteTx(tx, clienteID)
		if err != nil {
			return err
		}

		type saldo struct {
			venta model.Venta
			resto decimal.Decimal
		}
		saldos := make([]saldo, 0, len(pendientes))
		deuda := decimal.Zero
		for _, v := range pendientes {
			abonado, err := s.abonos.SumaPorVentaTx(tx, v.ID)
			if err != nil {
				return err
			}
			resto := v.Total.Sub(abonado)
			if !resto.IsPositive() {
				continue
			}
			saldos = append(saldos, saldo{venta: v, resto: resto})
			deuda = deuda.Add(resto)
		}
		if len(saldos) == 0 {
			return ErrSinDeuda
		}

		restante := deuda
		if monto != nil {
			if monto.GreaterThan(deuda) {
				return ErrSobrepago
			}
			restante = *monto
		}
		dist.MontoTotal = restante

		for _, sd := range saldos {
			if !restante.IsPositive() {
				break
			}
			aplicar := decimal.Min(restante, sd.resto)
			venta, err := s.ventas.LockByIDTx(tx, sd.venta.ID)
			if err != nil {
				return err
			}
			abono, actual, err := s.CrearAbonoTx(tx, id, venta, aplicar, notas)
			if err != nil {
				return err
			}
			dist.Aplicaciones = append(dist.Aplicaciones, AplicacionAbono{
				VentaID:     venta.ID,
				AbonoID:     abono.ID,
				Monto:       aplicar,
				RestoPrevio: sd.resto,
				RestoActual: actual.Resto,
				VentaPagada: actual.PagadoCompletamente,
			})
			restante = restante.Sub(aplicar)
		}

		res, err := s.deuda.SincronizarClienteTx(tx, clienteID)
		if err != nil {
			return err
		}
		dist.DeudaRestante = res.DeudaReal
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("cliente_id", clienteID.String()).
		Str("monto", dist.MontoTotal.StringFixed(2)).
		Int("ventas", len(dist.Aplicaciones)).
		Msg("abono a cuenta distribuido")
	return dist, nil
}

func (s *abonoService) encolarRecibo(ctx context.Context, abono *model.Abono) {
	if s.dispatcher == nil {
		return
	}
	job := worker.ComprobanteJobPayload{
		Tipo:    worker.ComprobanteReciboAbono,
		VentaID: abono.VentaID.String(),
		AbonoID: abono.ID.String(),
	}
	if err := s.dispatcher.EnqueueComprobante(ctx, job); err != nil {
		log.Warn().Err(err).Str("abono_id", abono.ID.String()).Msg("no se pudo encolar recibo de abono")
	}
}
