package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"fiadopos/internal/dto"
	"fiadopos/internal/model"
	"fiadopos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.ProductoResponse, error)
	// Actualizar records a price-history row when either price changes and
	// routes a new cantidad_stock through a manual stock movement.
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	ListarBajoStock(ctx context.Context) ([]dto.ProductoResponse, error)

	ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPrecioResponse, error)
	HistorialPrecios(ctx context.Context, id uuid.UUID, pag dto.PaginaQuery) (*dto.HistorialPrecioListResponse, error)
	MovimientosStock(ctx context.Context, id uuid.UUID, pag dto.PaginaQuery) (*dto.MovimientoStockListResponse, error)
}

// CachePrecios is satisfied by *infra.PrecioCache.
type CachePrecios interface {
	Get(ctx context.Context, codigo string, dest any) bool
	Set(ctx context.Context, codigo string, v any)
	Invalidar(ctx context.Context, codigo string)
}

type sinCache struct{}

func (sinCache) Get(context.Context, string, any) bool { return false }
func (sinCache) Set(context.Context, string, any) {}
func (sinCache) Invalidar(context.Context, string) {}

type productoService struct {
	repo        repository.ProductoRepository
	historial   repository.HistorialPrecioRepository
	movimientos repository.MovimientoStockRepository
	cache       CachePrecios
}

// NewProductoService accepts a nil cache.
func NewProductoService(
	repo repository.ProductoRepository,
	historial repository.HistorialPrecioRepository,
	movimientos repository.MovimientoStockRepository,
	cache CachePrecios,
) ProductoService {
	if cache == nil {
		cache = sinCache{}
	}
	return &productoService{repo: repo, historial: historial, movimientos: movimientos, cache: cache}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	unidad := req.UnidadMedida
	if unidad == "" {
		unidad = "unidad"
	}
	p := &model.Producto{
		Nombre:          req.Nombre,
		CodigoBarras:    req.CodigoBarras,
		Descripcion:     req.Descripcion,
		Categoria:       req.Categoria,
		Proveedor:       req.Proveedor,
		PrecioProveedor: req.PrecioProveedor,
		PrecioVenta:     req.PrecioVenta,
		CantidadStock:   req.CantidadStock,
		StockMinimo:     req.StockMinimo,
		UnidadMedida:    unidad,
		Activo:          true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, traducirDuplicado(err, req.CodigoBarras)
	}
	resp := dto.FromProducto(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		data[i] = dto.FromProducto(&productos[i])
	}
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *productoService) ObtenerPorCodigo(ctx context.Context, codigo string) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByBarcode(ctx, codigo)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}
	resp := dto.FromProducto(p)
	return &resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	var p *model.Producto
	var codigoAnterior *string
	err := enTransaccion(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		p, err = s.repo.FindByIDTx(tx, id)
		if err != nil {
			return noEncontrado(err, "producto")
		}
		codigoAnterior = p.CodigoBarras

		costo, venta := p.PrecioProveedor, p.PrecioVenta
		if req.PrecioProveedor != nil {
			costo = *req.PrecioProveedor
		}
		if req.PrecioVenta != nil {
			venta = *req.PrecioVenta
		}
		if h := model.CambioPrecio(p, costo, venta); h != nil {
			if err := s.historial.CreateTx(tx, h); err != nil {
				return err
			}
		}
		p.PrecioProveedor, p.PrecioVenta = costo, venta

		if req.Nombre != nil {
			p.Nombre = *req.Nombre
		}
		if req.CodigoBarras != nil {
			p.CodigoBarras = req.CodigoBarras
		}
		if req.Descripcion != nil {
			p.Descripcion = req.Descripcion
		}
		if req.Categoria != nil {
			p.Categoria = req.Categoria
		}
		if req.Proveedor != nil {
			p.Proveedor = req.Proveedor
		}
		if req.StockMinimo != nil {
			p.StockMinimo = *req.StockMinimo
		}
		if req.UnidadMedida != nil {
			p.UnidadMedida = *req.UnidadMedida
		}
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return traducirDuplicado(err, p.CodigoBarras)
		}

		if req.CantidadStock == nil {
			return nil
		}
		delta := req.CantidadStock.Sub(p.CantidadStock)
		if delta.IsZero() {
			return nil
		}
		mov, err := s.repo.AjustarStockTx(tx, id, delta, model.MovimientoAjuste, nil)
		if err != nil {
			return err
		}
		p.CantidadStock = mov.StockNuevo
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidar(ctx, codigoAnterior)
	s.invalidar(ctx, p.CodigoBarras)
	resp := dto.FromProducto(p)
	return &resp, nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return noEncontrado(err, "producto")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return noEncontrado(err, "producto")
	}
	s.invalidar(ctx, p.CodigoBarras)
	return nil
}

func (s *productoService) invalidar(ctx context.Context, codigo *string) {
	if codigo != nil && *codigo != "" {
		s.cache.Invalidar(ctx, *codigo)
	}
}

func (s *productoService) ListarBajoStock(ctx context.Context) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.ListBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		resp[i] = dto.FromProducto(&productos[i])
	}
	return resp, nil
}

// ── Consulta publica y auditoria ─────────────────────────────────────────────

// ConsultarPrecio answers the public price check, reading through the cache.
func (s *productoService) ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPrecioResponse, error) {
	var resp dto.ConsultaPrecioResponse
	if s.cache.Get(ctx, codigo, &resp) {
		return &resp, nil
	}
	p, err := s.repo.FindByBarcode(ctx, codigo)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}
	resp = dto.ToConsultaPrecio(p)
	s.cache.Set(ctx, codigo, resp)
	return &resp, nil
}

func (s *productoService) HistorialPrecios(ctx context.Context, id uuid.UUID, pag dto.PaginaQuery) (*dto.HistorialPrecioListResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, noEncontrado(err, "producto")
	}
	rows, total, err := s.historial.ListByProducto(ctx, id, pag.Page, pag.Limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.HistorialPrecioItem, len(rows))
	for i := range rows {
		data[i] = dto.FromHistorialPrecio(&rows[i])
	}
	return &dto.HistorialPrecioListResponse{Data: data, Total: total, Page: pag.Page, Limit: pag.Limit}, nil
}

func (s *productoService) MovimientosStock(ctx context.Context, id uuid.UUID, pag dto.PaginaQuery) (*dto.MovimientoStockListResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, noEncontrado(err, "producto")
	}
	rows, total, err := s.movimientos.ListByProducto(ctx, id, pag.Page, pag.Limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoStockItem, len(rows))
	for i := range rows {
		data[i] = dto.FromMovimientoStock(&rows[i])
	}
	log.Debug().Str("producto_id", id.String()).Int64("total", total).Msg("movimientos de stock listados")
	return &dto.MovimientoStockListResponse{Data: data, Total: total, Page: pag.Page, Limit: pag.Limit}, nil
}

func traducirDuplicado(err error, codigo *string) error {
	if errors.Is(err, repository.ErrDuplicado) && codigo != nil {
		return fmt.Errorf("codigo de barras %q: %w", *codigo, ErrDuplicado)
	}
	return err
}
