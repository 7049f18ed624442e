package repository

import (
	"context"

	"fiadopos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoStockRepository reads the stock audit trail. Rows are written by
// ProductoRepository.AjustarStockTx.
type MovimientoStockRepository interface {
	ListByProducto(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.MovimientoStock, int64, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

// ListByProducto returns the product's movements newest first.
func (r *movimientoStockRepo) ListByProducto(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.MovimientoStock, int64, error) {
	page, limit = paginar(page, limit)
	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{}).Where("producto_id = ?", productoID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var movimientos []model.MovimientoStock
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&movimientos).Error
	return movimientos, total, err
}

func paginar(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}
