package service

import (
	"context"
	"strings"

	"fiadopos/internal/dto"
	"fiadopos/internal/model"
	"fiadopos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	// Listar reports deuda_total as derived from the ledger, not the cached
	// column, so a drifted cache is never shown.
	Listar(ctx context.Context, filter dto.ClienteFilter) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	EstadoCuenta(ctx context.Context, id uuid.UUID) (*dto.EstadoCuentaResponse, error)
}

type clienteService struct {
	repo   repository.ClienteRepository
	ventas repository.VentaRepository
	deuda  DeudaService
}

func NewClienteService(repo repository.ClienteRepository, ventas repository.VentaRepository, deuda DeudaService) ClienteService {
	return &clienteService{repo: repo, ventas: ventas, deuda: deuda}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	if req.LimiteCredito.IsNegative() {
		return nil, ErrMontoInvalido
	}
	c := &model.Cliente{
		Nombre:        strings.TrimSpace(req.Nombre),
		Telefono:      req.Telefono,
		Direccion:     req.Direccion,
		Email:         req.Email,
		LimiteCredito: req.LimiteCredito,
		Notas:         req.Notas,
		Activo:        true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := dto.FromCliente(c)
	return &resp, nil
}

func (s *clienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "cliente")
	}
	deuda, err := s.deuda.CalcularDeudaReal(ctx, id)
	if err != nil {
		return nil, err
	}
	c.DeudaTotal = deuda
	resp := dto.FromCliente(c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	pendientes, err := s.ventas.ListPendientes(ctx)
	if err != nil {
		return nil, err
	}
	deudas := make(map[uuid.UUID]decimal.Decimal)
	for _, v := range pendientes {
		if v.ClienteID != nil {
			deudas[*v.ClienteID] = deudas[*v.ClienteID].Add(v.Resto)
		}
	}

	resp := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		c := &clientes[i]
		c.DeudaTotal = deudas[c.ID]
		if filter.SoloConDeuda && !c.TieneDeuda() {
			continue
		}
		resp = append(resp, dto.FromCliente(c))
	}
	return resp, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "cliente")
	}
	if req.Nombre != nil {
		c.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Telefono != nil {
		c.Telefono = req.Telefono
	}
	if req.Direccion != nil {
		c.Direccion = req.Direccion
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Notas != nil {
		c.Notas = req.Notas
	}
	if req.LimiteCredito != nil {
		if req.LimiteCredito.IsNegative() {
			return nil, ErrMontoInvalido
		}
		c.LimiteCredito = *req.LimiteCredito
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.Obtener(ctx, id)
}

func (s *clienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return noEncontrado(s.repo.SoftDelete(ctx, id), "cliente")
}

func (s *clienteService) EstadoCuenta(ctx context.Context, id uuid.UUID) (*dto.EstadoCuentaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "cliente")
	}
	abiertas, err := s.ventas.ListByCliente(ctx, id, true)
	if err != nil {
		return nil, err
	}
	deudaReal := sumarResto(abiertas)
	registrada := c.DeudaTotal
	c.DeudaTotal = deudaReal
	return &dto.EstadoCuentaResponse{
		Cliente:         dto.FromCliente(c),
		VentasAbiertas:  dto.FromVentas(abiertas),
		DeudaReal:       deudaReal,
		DeudaRegistrada: registrada,
	}, nil
}
