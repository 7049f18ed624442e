package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fiadopos/internal/dto"
	"fiadopos/internal/model"
	"fiadopos/internal/repository"
	"fiadopos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	CrearVenta(ctx context.Context, id Identidad, req dto.CrearVentaRequest) (*model.Venta, error)
	EliminarVenta(ctx context.Context, ventaID uuid.UUID) error
	ObtenerVenta(ctx context.Context, ventaID uuid.UUID) (*model.Venta, error)
	ListarVentas(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	ListarPendientes(ctx context.Context) ([]model.Venta, error)
	ListarPorCliente(ctx context.Context, clienteID uuid.UUID, soloPendientes bool) ([]model.Venta, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	abonos       repository.AbonoRepository
	clientes     repository.ClienteRepository
	productoRepo repository.ProductoRepository
	abonoSvc     AbonoService
	deuda        DeudaService
	dispatcher   *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	abonos repository.AbonoRepository,
	clientes repository.ClienteRepository,
	productoRepo repository.ProductoRepository,
	abonoSvc AbonoService,
	deuda DeudaService,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:         repo,
		abonos:       abonos,
		clientes:     clientes,
		productoRepo: productoRepo,
		abonoSvc:     abonoSvc,
		deuda:        deuda,
		dispatcher:   dispatcher,
	}
}

// ── CrearVenta ───────────────────────────────────────────────────────────────
// Validation runs before any write. Inside one transaction:
//   1. insert the sale with its item list
//   2. decrement stock for items flagged descontar_stock
//   3. record the initial payment as an abono row
//   4. recompute the sale totals and resync the customer's cached debt

func (s *ventaService) CrearVenta(ctx context.Context, id Identidad, req dto.CrearVentaRequest) (*model.Venta, error) {
	if err := id.validar(); err != nil {
		return nil, err
	}

	items, err := construirItems(req.Items)
	if err != nil {
		return nil, err
	}
	total := items.Total()
	if !total.IsPositive() {
		return nil, fmt.Errorf("total de la venta: %w", ErrMontoInvalido)
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil && *req.ClienteID != "" {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id invalido: %w", ErrNoEncontrado)
		}
		clienteID = &cid
	}

	abonoInicial := decimal.Zero
	if req.EsFiado {
		if clienteID == nil {
			return nil, ErrClienteRequerido
		}
		abonoInicial = req.AbonoInicial
		if abonoInicial.IsNegative() || !model.EnCentavos(abonoInicial) {
			return nil, fmt.Errorf("abono inicial: %w", ErrMontoInvalido)
		}
		if abonoInicial.GreaterThan(total) {
			return nil, ErrSobrepago
		}
	}

	venta := &model.Venta{
		UsuarioID:     id.UsuarioID,
		UsuarioNombre: id.Nombre,
		ClienteID:     clienteID,
		Productos:     items,
		Total:         total,
		EsFiado:       req.EsFiado,
		Resto:         total,
		Notas:         req.Notas,
		MetodoPago:    req.MetodoPago,
	}

	err = enTransaccion(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if clienteID != nil {
			cliente, err := s.clientes.FindByIDTx(tx, *clienteID)
			if err != nil {
				return noEncontrado(err, "cliente")
			}
			if !cliente.Activo {
				return fmt.Errorf("cliente inactivo: %w", ErrNoEncontrado)
			}
			nombre := cliente.Nombre
			venta.ClienteNombre = &nombre

			if req.EsFiado {
				deuda, err := s.deuda.CalcularDeudaRealTx(tx, cliente.ID)
				if err != nil {
					return err
				}
				if !cliente.PuedeFiar(deuda, total.Sub(abonoInicial)) {
					return ErrLimiteCredito
				}
			}
		}

		if err := s.repo.Create(ctx, tx, venta); err != nil {
			return err
		}

		for _, it := range items.ConStock() {
			if _, err := s.productoRepo.AjustarStockTx(tx, *it.ProductoID, it.Cantidad.Neg(), model.MovimientoVenta, &venta.ID); err != nil {
				return fmt.Errorf("descontando stock de %s: %w", it.Nombre, noEncontrado(err, "producto"))
			}
		}

		if abonoInicial.IsPositive() {
			nota := notaAbonoInicial
			locked, err := s.repo.LockByIDTx(tx, venta.ID)
			if err != nil {
				return err
			}
			if _, _, err := s.abonoSvc.CrearAbonoTx(tx, id, locked, abonoInicial, &nota); err != nil {
				return err
			}
		} else if _, err := s.abonoSvc.RecalcularTotales(ctx, tx, venta.ID); err != nil {
			return err
		}

		if req.EsFiado {
			if _, err := s.deuda.SincronizarClienteTx(tx, *clienteID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	creada, err := s.repo.FindByID(ctx, venta.ID)
	if err != nil {
		return nil, noEncontrado(err, "venta")
	}

	log.Info().
		Str("venta_id", creada.ID.String()).
		Str("total", creada.Total.StringFixed(2)).
		Bool("fiado", creada.EsFiado).
		Str("usuario", id.Nombre).
		Msg("venta registrada")

	s.encolarTicket(ctx, creada, req.ClienteEmail)
	return creada, nil
}

func construirItems(reqs []dto.ItemVentaRequest) (model.ItemsVenta, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("la venta no tiene productos: %w", ErrMontoInvalido)
	}
	items := make(model.ItemsVenta, 0, len(reqs))
	for _, r := range reqs {
		if !r.Cantidad.IsPositive() || r.PrecioUnitario.IsNegative() {
			return nil, fmt.Errorf("item %q: %w", r.Nombre, ErrMontoInvalido)
		}
		it := model.ItemVenta{
			Nombre:         strings.TrimSpace(r.Nombre),
			PrecioUnitario: r.PrecioUnitario,
			Cantidad:       r.Cantidad,
			Subtotal:       r.PrecioUnitario.Mul(r.Cantidad).Round(2),
			DescontarStock: r.DescontarStock,
		}
		if r.ProductoID != nil && *r.ProductoID != "" {
			pid, err := uuid.Parse(*r.ProductoID)
			if err != nil {
				return nil, fmt.Errorf("producto_id invalido: %w", ErrNoEncontrado)
			}
			it.ProductoID = &pid
		}
		items = append(items, it)
	}
	return items, nil
}

// ── EliminarVenta ────────────────────────────────────────────────────────────
// Cascades the abonos, restores stock and resyncs the customer so the
// deleted sale stops counting toward the derived debt.

func (s *ventaService) EliminarVenta(ctx context.Context, ventaID uuid.UUID) error {
	var venta *model.Venta
	err := enTransaccion(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		venta, err = s.repo.LockByIDTx(tx, ventaID)
		if err != nil {
			return noEncontrado(err, "venta")
		}

		for _, it := range venta.Productos.ConStock() {
			_, err := s.productoRepo.AjustarStockTx(tx, *it.ProductoID, it.Cantidad, model.MovimientoEliminacion, &ventaID)
			if err == nil {
				continue
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Warn().Str("producto_id", it.ProductoID.String()).Msg("producto eliminado, stock no restaurado")
				continue
			}
			return err
		}

		if err := s.abonos.DeleteByVentaTx(tx, ventaID); err != nil {
			return err
		}
		if err := s.repo.DeleteTx(tx, ventaID); err != nil {
			return noEncontrado(err, "venta")
		}
		if venta.ClienteID != nil {
			if _, err := s.deuda.SincronizarClienteTx(tx, *venta.ClienteID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().Str("venta_id", ventaID.String()).Str("total", venta.Total.StringFixed(2)).Msg("venta eliminada")
	return nil
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerVenta(ctx context.Context, ventaID uuid.UUID) (*model.Venta, error) {
	v, err := s.repo.FindByID(ctx, ventaID)
	if err != nil {
		return nil, noEncontrado(err, "venta")
	}
	return v, nil
}

func (s *ventaService) ListarVentas(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

func (s *ventaService) ListarPendientes(ctx context.Context) ([]model.Venta, error) {
	return s.repo.ListPendientes(ctx)
}

func (s *ventaService) ListarPorCliente(ctx context.Context, clienteID uuid.UUID, soloPendientes bool) ([]model.Venta, error) {
	if _, err := s.clientes.FindByID(ctx, clienteID); err != nil {
		return nil, noEncontrado(err, "cliente")
	}
	return s.repo.ListByCliente(ctx, clienteID, soloPendientes)
}

func (s *ventaService) encolarTicket(ctx context.Context, v *model.Venta, email *string) {
	if s.dispatcher == nil {
		return
	}
	job := worker.ComprobanteJobPayload{
		Tipo:         worker.ComprobanteTicket,
		VentaID:      v.ID.String(),
		ClienteEmail: email,
	}
	if err := s.dispatcher.EnqueueComprobante(ctx, job); err != nil {
		log.Warn().Err(err).Str("venta_id", v.ID.String()).Msg("no se pudo encolar ticket")
	}
}
