package repository

import (
	"context"
	"strings"

	"fiadopos/internal/dto"
	"fiadopos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	ListBajoStock(ctx context.Context) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	// UpdateTx saves every column except cantidad_stock; stock only moves
	// through AjustarStockTx.
	UpdateTx(tx *gorm.DB, p *model.Producto) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// AjustarStockTx adds delta (negative to decrement) to cantidad_stock,
	// reading the row FOR UPDATE first, and records the movement.
	AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal, tipo string, referenciaID *uuid.UUID) (*model.MovimientoStock, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) DB() *gorm.DB { return r.db }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return traducirError(r.db.WithContext(ctx).Create(p).Error)
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *productoRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo_barras = ? AND activo = ?", barcode, true).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})

	// Activo filter: "false" = inactivos, "all" = todos, anything else = activos (default)
	switch filter.Activo {
	case "false":
		q = q.Where("activo = ?", false)
	case "all":
	default:
		q = q.Where("activo = ?", true)
	}

	if b := strings.TrimSpace(filter.Buscar); b != "" {
		like := "%" + strings.ToLower(b) + "%"
		q = q.Where("LOWER(nombre) LIKE ? OR codigo_barras = ?", like, b)
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

// Compared in Go: stock columns are NUMERIC and the comparison must not
// depend on driver coercion.
func (r *productoRepo) ListBajoStock(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	if err := r.db.WithContext(ctx).Where("activo = ?", true).Order("nombre ASC").Find(&productos).Error; err != nil {
		return nil, err
	}
	out := productos[:0]
	for _, p := range productos {
		if p.BajoStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	return r.UpdateTx(r.db.WithContext(ctx), p)
}

func (r *productoRepo) UpdateTx(tx *gorm.DB, p *model.Producto) error {
	return traducirError(tx.Omit("cantidad_stock").Save(p).Error)
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productoRepo) AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal, tipo string, referenciaID *uuid.UUID) (*model.MovimientoStock, error) {
	var p model.Producto
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	mov := &model.MovimientoStock{
		ProductoID:    id,
		Tipo:          tipo,
		Cantidad:      delta,
		StockAnterior: p.CantidadStock,
		StockNuevo:    p.CantidadStock.Add(delta),
		ReferenciaID:  referenciaID,
	}
	err := tx.Model(&model.Producto{}).Where("id = ?", id).
		UpdateColumn("cantidad_stock", mov.StockNuevo).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Create(mov).Error; err != nil {
		return nil, err
	}
	return mov, nil
}
